package pg

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

var _ ports.IHistoryStore = (*HistoryStore)(nil)

// HistoryStore реализует ports.IHistoryStore для PostgreSQL: одна строка kv_store на ключ истории.
type HistoryStore struct {
	db  *DB
	key string
	log *slog.Logger
}

// NewHistoryStore возвращает хранилище истории под ключом key.
func NewHistoryStore(db *DB, key string, log *slog.Logger) *HistoryStore {
	if key == "" {
		key = domain.HistoryKey
	}
	return &HistoryStore{db: db, key: key, log: log}
}

// Load читает историю. Если строки нет — пустая история.
func (s *HistoryStore) Load(ctx context.Context) ([]string, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, s.key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []string{}, nil
		}
		s.log.Debug("history load failed", "key", s.key, "error", err)
		return nil, err
	}
	return domain.DecodeHistory(raw)
}

// Save перезаписывает историю (upsert по ключу).
func (s *HistoryStore) Save(ctx context.Context, entries []string) error {
	raw, err := domain.EncodeHistory(entries)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		s.key, string(raw))
	if err != nil {
		s.log.Debug("history save failed", "key", s.key, "error", err)
		return err
	}
	return nil
}

// Ping проверяет доступность БД (readiness).
func (s *HistoryStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
