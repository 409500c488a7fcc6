package calculator

import (
	"context"
	"fmt"
	"time"

	"lovecalc/internal/domain"
)

// Load читает сохранённую историю один раз при старте.
func (u *UseCase) Load(ctx context.Context) error {
	entries, err := u.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	u.mu.Lock()
	u.state.History = domain.TruncateHistory(entries)
	u.mu.Unlock()
	u.log.Info("history loaded", "entries", len(entries))
	return nil
}

// Dispatch применяет событие к сессии. Сохранение истории и публикация расчёта выполняются здесь же,
// наружу возвращаются эффекты, которые исполняет фронтенд (звук и таймеры транзиентов).
// Хранилище и брокер вызываются уже без блокировки состояния: медленный бэкенд задерживает
// только этот вызов, а не State и события без ввода-вывода.
func (u *UseCase) Dispatch(ctx context.Context, ev domain.Event) (domain.State, []domain.Effect) {
	u.mu.Lock()
	next, effects := Reduce(u.opts, u.state, ev)
	u.state = next
	snapshot := next.Clone()

	var (
		pending []domain.Effect
		rest    []domain.Effect
	)
	for _, eff := range effects {
		switch eff.(type) {
		case domain.HistoryChanged, domain.Calculated:
			pending = append(pending, eff)
		default:
			rest = append(rest, eff)
		}
	}
	if len(pending) == 0 {
		u.mu.Unlock()
		return snapshot, rest
	}

	// ioMu берётся до отпускания mu, чтобы сохранения шли в порядке изменений истории.
	u.ioMu.Lock()
	u.mu.Unlock()
	defer u.ioMu.Unlock()
	for _, eff := range pending {
		switch e := eff.(type) {
		case domain.HistoryChanged:
			u.saveHistory(ctx, e.Entries)
		case domain.Calculated:
			u.publish(ctx, e.Calculation)
		}
	}
	return snapshot, rest
}

// State возвращает копию текущего состояния.
func (u *UseCase) State() domain.State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.Clone()
}

// History — история расчётов, последние сначала.
func (u *UseCase) History() []string {
	return u.State().History
}

// ClearHistory очищает историю в сессии и в хранилище.
func (u *UseCase) ClearHistory(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ioMu.Lock()
	defer u.ioMu.Unlock()
	if err := u.store.Save(ctx, []string{}); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	u.state.History = nil
	u.log.Info("history cleared")
	return nil
}

// Evaluate вычисляет выражение без изменения сессии и истории.
func (u *UseCase) Evaluate(expression string) (string, error) {
	return Evaluate(expression)
}

// HandleCalculationEvent вызывается консьюмером при получении сообщения из топика расчётов (часть ICalculatorUseCase).
func (u *UseCase) HandleCalculationEvent(ctx context.Context, c domain.Calculation) error {
	if u.analytics == nil {
		return nil
	}
	if err := u.analytics.WriteCalculation(ctx, c); err != nil {
		u.log.Warn("analytics write", "error", err)
		return err
	}
	u.log.Info("calculation stored to click", "kind", c.Kind, "expression", c.Expression, "result", c.Result, "error", c.Error)
	return nil
}

// Schedule заводит таймеры для эффектов ScheduleDismiss (для фронтендов без собственного цикла событий).
// Эффекты других типов пропускаются.
func (u *UseCase) Schedule(ctx context.Context, effects []domain.Effect) {
	ctx = context.WithoutCancel(ctx)
	for _, eff := range effects {
		d, ok := eff.(domain.ScheduleDismiss)
		if !ok {
			continue
		}
		time.AfterFunc(d.After, func() {
			u.Dispatch(ctx, domain.Dismiss(d.Transient, d.Gen))
		})
	}
}

func (u *UseCase) saveHistory(ctx context.Context, entries []string) {
	if err := u.store.Save(ctx, entries); err != nil {
		u.log.Warn("history save failed", "error", err)
		return
	}
	u.log.Debug("history saved", "entries", len(entries))
}

func (u *UseCase) publish(ctx context.Context, c domain.Calculation) {
	if u.broker == nil {
		return
	}
	c.Timestamp = u.now()
	if err := u.broker.Publish(ctx, c); err != nil {
		u.log.Warn("calculation publish failed", "expression", c.Expression, "error", err)
		return
	}
	u.log.Info("calculation published", "key", c.Expression, "result", c.Result)
}
