package redis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

var _ ports.IHistoryStore = (*HistoryStore)(nil)

// HistoryStore реализует ports.IHistoryStore через Redis: история лежит JSON-массивом под одним ключом.
type HistoryStore struct {
	cli *Client
	key string
	log *slog.Logger
}

// NewHistoryStore возвращает хранилище истории под ключом key.
func NewHistoryStore(cli *Client, key string, log *slog.Logger) *HistoryStore {
	if key == "" {
		key = domain.HistoryKey
	}
	return &HistoryStore{cli: cli, key: key, log: log}
}

// Load читает историю. Если ключа нет — пустая история.
func (s *HistoryStore) Load(ctx context.Context) ([]string, error) {
	raw, err := s.cli.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) { // ключа нет
			return []string{}, nil
		}
		s.log.Debug("history get failed", "key", s.key, "error", err)
		return nil, err
	}
	entries, err := domain.DecodeHistory(raw)
	if err != nil {
		s.log.Debug("history parse failed", "key", s.key, "error", err)
		return nil, err
	}
	return entries, nil
}

// Save перезаписывает историю целиком, без TTL.
func (s *HistoryStore) Save(ctx context.Context, entries []string) error {
	raw, err := domain.EncodeHistory(entries)
	if err != nil {
		return err
	}
	if err := s.cli.Set(ctx, s.key, raw, 0).Err(); err != nil {
		s.log.Debug("history set failed", "key", s.key, "error", err)
		return err
	}
	return nil
}

// Ping проверяет соединение (для readiness).
func (s *HistoryStore) Ping(ctx context.Context) error {
	return s.cli.Ping(ctx)
}
