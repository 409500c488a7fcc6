package calculator

import (
	"log/slog"
	"sync"
	"time"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

var _ ports.ICalculatorUseCase = (*UseCase)(nil)

// UseCase — бизнес-логика калькулятора: владеет состоянием сессии, сохраняет историю и публикует расчёты.
// mu охраняет состояние (HTTP-фронтенд зовёт Dispatch из разных горутин), ioMu упорядочивает
// сохранение и публикацию. Порядок захвата: mu, затем ioMu.
type UseCase struct {
	mu    sync.Mutex
	ioMu  sync.Mutex
	state domain.State
	opts  domain.Options

	store     ports.IHistoryStore
	broker    ports.IProducer
	analytics ports.ICalculationAnalytics
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт юзкейс калькулятора. broker и analytics могут быть nil — тогда расчёты никуда не публикуются.
func New(store ports.IHistoryStore, broker ports.IProducer, analytics ports.ICalculationAnalytics, opts domain.Options, log *slog.Logger) *UseCase {
	if log == nil {
		log = slog.Default()
	}
	return &UseCase{
		state:     domain.NewState(nil),
		opts:      opts,
		store:     store,
		broker:    broker,
		analytics: analytics,
		log:       log,
		now:       time.Now,
	}
}

// WithDark задаёт начальную тему (до загрузки истории).
func (u *UseCase) WithDark(dark bool) *UseCase {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.Dark = dark
	return u
}
