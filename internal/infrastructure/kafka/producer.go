package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

var _ ports.IProducer = (*Producer)(nil)

// headerKind — заголовок с видом расчёта, чтобы фильтровать без разбора тела.
const headerKind = "kind"

// Producer — обёртка над kafka.Writer, публикующая расчёты в топик.
type Producer struct {
	w *kafka.Writer
}

// NewProducer создаёт продюсера по конфигу. После использования вызови Close().
func NewProducer(cfg *Config) *Producer {
	return New(cfg).Producer()
}

// Publish отправляет расчёт одним сообщением. Ключ (выражение) выбирает партицию, так одинаковые
// выражения читаются по порядку.
func (p *Producer) Publish(ctx context.Context, c domain.Calculation) error {
	msg, err := encodeCalculation(c)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

// Close закрывает продюсера.
func (p *Producer) Close() error {
	return p.w.Close()
}

func encodeCalculation(c domain.Calculation) (Message, error) {
	value, err := json.Marshal(c)
	if err != nil {
		return Message{}, fmt.Errorf("encode calculation: %w", err)
	}
	return Message{
		Key:     []byte(c.Expression),
		Value:   value,
		Headers: []kafka.Header{{Key: headerKind, Value: []byte(c.Kind)}},
	}, nil
}

func decodeCalculation(msg Message) (domain.Calculation, error) {
	var c domain.Calculation
	if err := json.Unmarshal(msg.Value, &c); err != nil {
		return domain.Calculation{}, fmt.Errorf("decode calculation: %w", err)
	}
	return c, nil
}
