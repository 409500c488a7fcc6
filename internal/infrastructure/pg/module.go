package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Config — настройки подключения к PostgreSQL. Переменные: CALCULATOR_DB_*.
type Config struct {
	Host     string        `default:"localhost"`
	Port     string        `default:"5433"`
	User     string        `default:"postgres"`
	Password string        `default:"postgres"`
	DBName   string        `envconfig:"NAME" default:"lovecalc"`
	SSLMode  string        `default:"disable"`
	Timeout  time.Duration `default:"5s"`
}

// DSN возвращает строку подключения для lib/pq. connect_timeout в целых секундах, не меньше одной.
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	if c.Timeout > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", max(1, int(c.Timeout/time.Second)))
	}
	return dsn
}

// DB обёртка над пулом соединений. История живёт в таблице kv_store (см. Migrate).
type DB struct {
	*sql.DB
}

// New подключается к PostgreSQL по конфигу и проверяет пингом.
func New(ctx context.Context, cfg *Config) (*DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pg open: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return &DB{conn}, nil
}

// Close закрывает пул.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Ping проверяет соединение с БД (для readiness).
func (db *DB) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}
