// Package testutil содержит хелперы для интеграционных тестов хранилищ (build tag integration).
// Каждый Start* поднимает контейнер на время теста и гасит его в t.Cleanup.
package testutil

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startTimeout = 3 * time.Minute

// Endpoint — адрес контейнера, проброшенный на хост.
type Endpoint struct {
	Host string
	Port string
}

// Addr возвращает "host:port".
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, e.Port)
}

// Postgres — параметры подключения к тестовому PostgreSQL.
type Postgres struct {
	Endpoint
	User     string
	Password string
	DBName   string
}

// Redis — адрес тестового Redis.
type Redis struct {
	Endpoint
}

// Mongo — адрес тестового MongoDB.
type Mongo struct {
	Endpoint
}

// URI возвращает строку подключения для mongo-driver.
func (m Mongo) URI() string {
	return "mongodb://" + m.Addr()
}

// ClickHouse — параметры подключения к тестовому ClickHouse (нативный протокол).
type ClickHouse struct {
	Endpoint
	User     string
	Password string
	Database string
}

// start поднимает контейнер, регистрирует его остановку и возвращает адрес порта port на хосте.
// В -short режиме тест пропускается.
func start(t *testing.T, name string, port nat.Port, run func(ctx context.Context) (testcontainers.Container, error)) Endpoint {
	t.Helper()
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в short режиме")
	}
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	c, err := run(ctx)
	if err != nil {
		t.Fatalf("не удалось поднять %s: %v", name, err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("остановка %s: %v", name, err)
		}
	})

	ep, err := endpoint(ctx, c, port)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return ep
}

func endpoint(ctx context.Context, c testcontainers.Container, port nat.Port) (Endpoint, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return Endpoint{}, fmt.Errorf("host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return Endpoint{}, fmt.Errorf("port %s: %w", port, err)
	}
	return Endpoint{Host: host, Port: mapped.Port()}, nil
}

// StartPostgres поднимает PostgreSQL на время теста.
func StartPostgres(t *testing.T) Postgres {
	t.Helper()
	pg := Postgres{User: "test", Password: "test", DBName: "lovecalc"}
	pg.Endpoint = start(t, "PostgreSQL", "5432/tcp", func(ctx context.Context) (testcontainers.Container, error) {
		return postgres.Run(ctx, "postgres:16-alpine",
			postgres.WithDatabase(pg.DBName),
			postgres.WithUsername(pg.User),
			postgres.WithPassword(pg.Password),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
	})
	return pg
}

// StartRedis поднимает Redis на время теста.
func StartRedis(t *testing.T) Redis {
	t.Helper()
	ep := start(t, "Redis", "6379/tcp", func(ctx context.Context) (testcontainers.Container, error) {
		return redis.Run(ctx, "redis:7-alpine",
			testcontainers.WithWaitStrategy(wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second)),
		)
	})
	return Redis{Endpoint: ep}
}

// StartMongo поднимает MongoDB на время теста.
func StartMongo(t *testing.T) Mongo {
	t.Helper()
	ep := start(t, "MongoDB", "27017/tcp", func(ctx context.Context) (testcontainers.Container, error) {
		return mongodb.Run(ctx, "mongo:7",
			testcontainers.WithWaitStrategy(wait.ForLog("Waiting for connections").WithStartupTimeout(60*time.Second)),
		)
	})
	return Mongo{Endpoint: ep}
}

// StartClickHouse поднимает ClickHouse на время теста.
func StartClickHouse(t *testing.T) ClickHouse {
	t.Helper()
	ch := ClickHouse{User: "default", Database: "default"}
	ch.Endpoint = start(t, "ClickHouse", "9000/tcp", func(ctx context.Context) (testcontainers.Container, error) {
		return clickhouse.Run(ctx, "clickhouse/clickhouse-server:24-alpine",
			clickhouse.WithUsername(ch.User),
			clickhouse.WithPassword(ch.Password),
			clickhouse.WithDatabase(ch.Database),
		)
	})
	return ch
}
