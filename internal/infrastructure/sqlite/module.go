package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Config — настройки локальной базы. Переменные: CALCULATOR_SQLITE_*.
// Пустой Path — файл history.db в пользовательском каталоге настроек.
type Config struct {
	Path string `default:""`
}

// ResolvePath возвращает путь к файлу базы.
func (c *Config) ResolvePath() (string, error) {
	if c != nil && c.Path != "" {
		return c.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("sqlite config dir: %w", err)
	}
	return filepath.Join(dir, "lovecalc", "history.db"), nil
}

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// DB — обёртка над *sql.DB с драйвером modernc.org/sqlite.
type DB struct {
	*sql.DB
	path string
}

// New открывает (или создаёт) файл базы и таблицу kv.
func New(ctx context.Context, cfg *Config) (*DB, error) {
	path, err := cfg.ResolvePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite mkdir: %w", err)
	}
	conn, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// Один писатель на файл.
	conn.SetMaxOpenConns(1)
	if _, err := conn.ExecContext(ctx, createKVTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return &DB{DB: conn, path: path}, nil
}

// Path — путь к файлу базы.
func (db *DB) Path() string {
	return db.path
}

// Close закрывает базу.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Ping проверяет соединение (для readiness).
func (db *DB) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}
