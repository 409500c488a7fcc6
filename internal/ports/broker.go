package ports

//go:generate mockgen -source=broker.go -destination=../mocks/broker_mock.go -package=mocks

import (
	"context"

	"lovecalc/internal/domain"
)

// IProducer — публикация законченных расчётов, успешных и с ошибкой. Формат сообщения, ключ и
// топик выбирает реализация.
type IProducer interface {
	Publish(ctx context.Context, c domain.Calculation) error
}
