package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

var _ ports.IHistoryStore = (*HistoryStore)(nil)

// HistoryStore реализует ports.IHistoryStore поверх локальной SQLite-базы.
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

// Load читает историю. Если ключа нет — пустая история.
func (s *HistoryStore) Load(ctx context.Context) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []string{}, nil
		}
		s.log.Debug("history load failed", "key", s.key, "error", err)
		return nil, err
	}
	return domain.DecodeHistory([]byte(raw))
}

// Save перезаписывает историю.
func (s *HistoryStore) Save(ctx context.Context, entries []string) error {
	raw, err := domain.EncodeHistory(entries)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		s.key, string(raw))
	if err != nil {
		s.log.Debug("history save failed", "key", s.key, "error", err)
		return err
	}
	return nil
}

// Ping проверяет доступность базы.
func (s *HistoryStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
