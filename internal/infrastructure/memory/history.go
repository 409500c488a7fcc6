// Package memory — хранилище истории в памяти процесса (бэкенд memory и тесты фронтендов).
package memory

import (
	"context"
	"sync"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

var _ ports.IHistoryStore = (*HistoryStore)(nil)

// HistoryStore держит историю в памяти. Живёт, пока жив процесс.
type HistoryStore struct {
	mu      sync.RWMutex
	entries []string
}

// NewHistoryStore создаёт хранилище с начальной историей.
func NewHistoryStore(initial ...string) *HistoryStore {
	return &HistoryStore{entries: domain.TruncateHistory(initial)}
}

// Load возвращает копию истории.
func (s *HistoryStore) Load(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.entries...), nil
}

// Save заменяет историю копией entries.
func (s *HistoryStore) Save(_ context.Context, entries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = domain.TruncateHistory(entries)
	return nil
}

// Ping всегда успешен.
func (s *HistoryStore) Ping(_ context.Context) error {
	return nil
}
