package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	apihttp "lovecalc/internal/api/http"
	"lovecalc/internal/api/http/controllers/calculator"
	"lovecalc/internal/api/http/controllers/system"
	"lovecalc/internal/infrastructure/click"
	"lovecalc/internal/infrastructure/kafka"
	"lovecalc/internal/infrastructure/memory"
	"lovecalc/internal/infrastructure/mongo"
	"lovecalc/internal/infrastructure/pg"
	"lovecalc/internal/infrastructure/redis"
	"lovecalc/internal/infrastructure/sqlite"
	"lovecalc/internal/ports"
	"lovecalc/internal/ui/repl"
	"lovecalc/internal/ui/tui"
	calcUsecase "lovecalc/internal/usecase/calculator"
)

// App — приложение: конфиг, логгер и открытые подключения, которые закрывает Close.
type App struct {
	cfg     Config
	log     *slog.Logger
	closers []func() error
}

// New создаёт приложение с конфигом (подключения открываются по требованию команд).
func New(cfg Config, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{cfg: cfg, log: log}
}

// Close закрывает подключения в обратном порядке.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// HistoryStore открывает хранилище истории выбранного бэкенда.
func (a *App) HistoryStore(ctx context.Context) (ports.IHistoryStore, error) {
	key := a.cfg.History.Key
	switch a.cfg.History.Backend {
	case BackendSQLite, "":
		db, err := sqlite.New(ctx, &a.cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		a.onClose(db.Close)
		a.log.Debug("history store opened", "backend", BackendSQLite, "path", db.Path())
		return sqlite.NewHistoryStore(db, key, a.log), nil
	case BackendRedis:
		cli, err := redis.New(ctx, &a.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.onClose(cli.Close)
		return redis.NewHistoryStore(cli, key, a.log), nil
	case BackendPostgres:
		db, err := pg.New(ctx, &a.cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		a.onClose(db.Close)
		if err := pg.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pg.NewHistoryStore(db, key, a.log), nil
	case BackendMongo:
		cli, err := mongo.New(ctx, &a.cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		a.onClose(func() error { return cli.Disconnect(context.Background()) })
		return mongo.NewHistoryStore(cli, key, a.log), nil
	case BackendMemory:
		return memory.NewHistoryStore(), nil
	}
	return nil, fmt.Errorf("unknown history backend %q", a.cfg.History.Backend)
}

// producer возвращает продюсера расчётов или nil, если Kafka выключена.
func (a *App) producer() ports.IProducer {
	if !a.cfg.Kafka.Enabled {
		return nil
	}
	p := kafka.NewProducer(&a.cfg.Kafka)
	a.onClose(p.Close)
	a.log.Info("calculations are published", "topic", a.cfg.Kafka.Topic, "brokers", a.cfg.Kafka.Brokers)
	return p
}

// UseCase собирает сессию калькулятора и загружает в неё историю.
func (a *App) UseCase(ctx context.Context) (*calcUsecase.UseCase, error) {
	uc, _, err := a.session(ctx)
	return uc, err
}

func (a *App) session(ctx context.Context) (*calcUsecase.UseCase, ports.IHistoryStore, error) {
	opts, err := a.cfg.Session.Options()
	if err != nil {
		return nil, nil, err
	}
	store, err := a.HistoryStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	uc := calcUsecase.New(store, a.producer(), nil, opts, a.log).WithDark(a.cfg.Session.Dark)
	if err := uc.Load(ctx); err != nil {
		return nil, nil, err
	}
	return uc, store, nil
}

// RunTUI запускает полноэкранный интерфейс.
func (a *App) RunTUI(ctx context.Context, bell io.Writer) error {
	uc, err := a.UseCase(ctx)
	if err != nil {
		return err
	}
	a.log.Info("tui started", "backend", a.cfg.History.Backend)
	return tui.Run(ctx, uc, tui.Options{Sound: a.cfg.Session.Sound, Bell: bell})
}

// RunREPL запускает построчный интерфейс.
func (a *App) RunREPL(ctx context.Context, out io.Writer) error {
	uc, err := a.UseCase(ctx)
	if err != nil {
		return err
	}
	a.log.Info("repl started", "backend", a.cfg.History.Backend)
	return repl.New(ctx, uc, out, repl.Options{Sound: a.cfg.Session.Sound}).Run()
}

// Eval вычисляет выражение без сессии и истории.
func (a *App) Eval(expression string) (string, error) {
	opts, err := a.cfg.Session.Options()
	if err != nil {
		return "", err
	}
	return calcUsecase.New(nil, nil, nil, opts, a.log).Evaluate(expression)
}

// History читает сохранённую историю.
func (a *App) History(ctx context.Context) ([]string, error) {
	uc, err := a.UseCase(ctx)
	if err != nil {
		return nil, err
	}
	return uc.History(), nil
}

// ClearHistory очищает сохранённую историю.
func (a *App) ClearHistory(ctx context.Context) error {
	uc, err := a.UseCase(ctx)
	if err != nil {
		return err
	}
	return uc.ClearHistory(ctx)
}

// Serve поднимает HTTP API сессии и блокируется до отмены ctx.
func (a *App) Serve(ctx context.Context) error {
	uc, store, err := a.session(ctx)
	if err != nil {
		return err
	}

	srv := apihttp.NewServer(a.cfg.Server, a.log)
	srv.AddController(
		system.New(store, a.cfg.History.Backend, a.log),
		calculator.New(uc, a.log))

	a.log.Info("application started", "http", a.cfg.Server.Addr(), "backend", a.cfg.History.Backend)
	return srv.Start(ctx)
}

// Consume читает топик расчётов и пишет их в ClickHouse до отмены ctx.
func (a *App) Consume(ctx context.Context) error {
	if !a.cfg.Kafka.Enabled {
		return errors.New("kafka is disabled: set CALCULATOR_KAFKA_ENABLED=true")
	}
	cli, err := click.New(ctx, &a.cfg.ClickHouse)
	if err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}
	a.onClose(cli.Close)

	writer := click.NewCalculationWriter(cli)
	if err := writer.EnsureTable(ctx); err != nil {
		return fmt.Errorf("clickhouse table: %w", err)
	}

	opts, err := a.cfg.Session.Options()
	if err != nil {
		return err
	}
	uc := calcUsecase.New(nil, nil, writer, opts, a.log)
	consumer := kafka.NewConsumer(&a.cfg.Kafka, uc, a.log)
	a.onClose(consumer.Close)

	a.log.Info("consumer started", "topic", a.cfg.Kafka.Topic, "group", a.cfg.Kafka.GroupID)
	err = consumer.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
