package ports

//go:generate mockgen -source=usecase.go -destination=../mocks/usecase_mock.go -package=mocks

import (
	"context"

	"lovecalc/internal/domain"
)

// ICalculatorUseCase — контракт бизнес-логики калькулятора: сессия ввода, история,
// вычисление без состояния и обработка событий из Kafka.
type ICalculatorUseCase interface {
	Load(ctx context.Context) error
	Dispatch(ctx context.Context, ev domain.Event) (domain.State, []domain.Effect)
	Schedule(ctx context.Context, effects []domain.Effect)
	State() domain.State
	History() []string
	ClearHistory(ctx context.Context) error
	Evaluate(expression string) (string, error)
	HandleCalculationEvent(ctx context.Context, c domain.Calculation) error
}
