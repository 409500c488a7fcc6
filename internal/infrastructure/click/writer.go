package click

import (
	"context"
	"fmt"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

var _ ports.ICalculationAnalytics = (*CalculationWriter)(nil)

// CalculationWriter записывает расчёты в ClickHouse в формате, удобном для аналитики
// (доля ошибок, популярные функции, расчёты в love-режиме по времени).
type CalculationWriter struct {
	db *Client
}

// NewCalculationWriter создаёт писатель расчётов для аналитики.
func NewCalculationWriter(db *Client) *CalculationWriter {
	return &CalculationWriter{db: db}
}

// EnsureTable создаёт таблицу расчётов, если её ещё нет. Вызови один раз при старте консьюмера.
func (w *CalculationWriter) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			kind LowCardinality(String),
			expression String,
			result String,
			error String,
			failed UInt8,
			love UInt8,
			created_at DateTime64(3)
		) ENGINE = MergeTree()
		ORDER BY (created_at, kind)
		PARTITION BY toYYYYMM(created_at)`,
		w.db.Table(),
	)
	if _, err := w.db.DB().ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure analytics table: %w", err)
	}
	return nil
}

// WriteCalculation пишет один расчёт в ClickHouse.
func (w *CalculationWriter) WriteCalculation(ctx context.Context, c domain.Calculation) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (kind, expression, result, error, failed, love, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		w.db.Table(),
	)
	_, err := w.db.DB().ExecContext(ctx, query,
		c.Kind, c.Expression, c.Result, c.Error, boolToUInt8(c.Failed()), boolToUInt8(c.Love), c.Timestamp)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
