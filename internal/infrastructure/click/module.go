package click

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Config — настройки подключения к ClickHouse. Переменные: CALCULATOR_CLICKHOUSE_*.
type Config struct {
	Host     string        `default:"localhost"`
	Port     string        `default:"9000"`
	Database string        `default:"default"`
	Username string        `default:"default"`
	Password string        `default:""`
	Table    string        `default:"calculations_analytics"`
	Timeout  time.Duration `default:"5s"`
}

// defaultTable — таблица расчётов, если в конфиге она не задана.
const defaultTable = "calculations_analytics"

// Addr возвращает адрес "host:port" для нативного протокола.
func (c *Config) Addr() string {
	if c == nil {
		return "localhost:9000"
	}
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Client — обёртка над sql.DB (драйвер clickhouse) и полное имя таблицы расчётов.
type Client struct {
	db    *sql.DB
	table string
}

// New подключается к ClickHouse по конфигу и проверяет пингом. После использования вызови Close().
func New(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: "9000", Database: "default", Username: "default"}
	}
	db := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{cfg.Addr()},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: dialTimeout(cfg.Timeout),
	})
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return &Client{db: db, table: cfg.fullTable()}, nil
}

func dialTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}

// fullTable — "база.таблица" для запросов.
func (c *Config) fullTable() string {
	db, table := c.Database, c.Table
	if db == "" {
		db = "default"
	}
	if table == "" {
		table = defaultTable
	}
	return db + "." + table
}

// Table — полное имя таблицы расчётов.
func (c *Client) Table() string {
	return c.table
}

// DB возвращает *sql.DB для выполнения запросов и batch-вставок (PrepareBatch и т.д.).
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close закрывает соединение с ClickHouse.
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping проверяет соединение (для readiness).
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
