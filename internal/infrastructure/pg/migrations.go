package pg

import (
	"context"
	"fmt"
)

const createKVStoreTable = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate создаёт таблицу kv_store, если её ещё нет.
func Migrate(ctx context.Context, db *DB) error {
	if _, err := db.ExecContext(ctx, createKVStoreTable); err != nil {
		return fmt.Errorf("pg migrate: %w", err)
	}
	return nil
}
