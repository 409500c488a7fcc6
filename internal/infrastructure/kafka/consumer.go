package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"lovecalc/internal/ports"
)

// defaultRetryDelays — паузы между повторными попытками записать один расчёт.
var defaultRetryDelays = []time.Duration{200 * time.Millisecond, time.Second, 5 * time.Second}

// Message — сообщение из Kafka (ключ, тело, топик, партиция, offset).
type Message = kafka.Message

// Consumer читает топик расчётов в consumer group и передаёт каждый расчёт в use case.
type Consumer struct {
	r     *kafka.Reader
	uc    ports.ICalculatorUseCase
	log   *slog.Logger
	retry []time.Duration
}

// NewConsumer создаёт консьюмера по конфигу, use case и логгеру. После использования вызови Close().
func NewConsumer(cfg *Config, uc ports.ICalculatorUseCase, log *slog.Logger) *Consumer {
	c := New(cfg).Consumer()
	c.uc = uc
	c.log = log
	c.retry = defaultRetryDelays
	return c
}

// Run читает сообщения до отмены ctx. Сообщение коммитится только после успешной обработки;
// если обработка не удалась и после всех повторов, Run останавливается без коммита,
// и после перезапуска группа получит это сообщение снова.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("kafka fetch: %w", err)
		}

		if err := c.process(ctx, msg); err != nil {
			c.log.Error("kafka consumer stopped", "error", err, "partition", msg.Partition, "offset", msg.Offset)
			return err
		}

		if err := c.r.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("kafka commit: %w", err)
		}
	}
}

// process декодирует сообщение и передаёт расчёт в use case. Битое сообщение пропускается
// (nil, его можно коммитить). Ошибка обработки повторяется с паузами из c.retry.
func (c *Consumer) process(ctx context.Context, msg Message) error {
	calc, err := decodeCalculation(msg)
	if err != nil {
		c.log.Warn("kafka message skipped", "error", err, "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		return nil
	}

	for attempt := 0; ; attempt++ {
		err := c.uc.HandleCalculationEvent(ctx, calc)
		if err == nil {
			return nil
		}
		if attempt >= len(c.retry) {
			return fmt.Errorf("handle calculation %q: %w", calc.Expression, err)
		}
		c.log.Warn("kafka handle failed, retrying", "error", err, "attempt", attempt+1, "offset", msg.Offset)

		timer := time.NewTimer(c.retry[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Close закрывает консьюмера.
func (c *Consumer) Close() error {
	return c.r.Close()
}
