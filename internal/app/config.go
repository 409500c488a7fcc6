package app

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"lovecalc/internal/api/http"
	"lovecalc/internal/domain"
	"lovecalc/internal/infrastructure/click"
	"lovecalc/internal/infrastructure/kafka"
	"lovecalc/internal/infrastructure/mongo"
	"lovecalc/internal/infrastructure/pg"
	"lovecalc/internal/infrastructure/redis"
	"lovecalc/internal/infrastructure/sqlite"
	"lovecalc/internal/pkg/logger"
)

const AppName = "CALCULATOR"

// Бэкенды истории.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// SessionConfig — параметры сессии. Переменные: CALCULATOR_SESSION_*.
type SessionConfig struct {
	EasterEgg  string `envconfig:"EASTER_EGG" default:"code"`
	SecretCode string `envconfig:"SECRET_CODE" default:"1314"`
	Trigger    string `default:"1 + 1"`
	Dark       bool   `default:"false"`
	Sound      bool   `default:"false"`
}

// Options переводит конфиг в параметры домена.
func (c SessionConfig) Options() (domain.Options, error) {
	opts := domain.DefaultOptions()
	switch egg := domain.EasterEgg(c.EasterEgg); egg {
	case domain.EasterEggCode, domain.EasterEggEquation:
		opts.EasterEgg = egg
	default:
		return domain.Options{}, fmt.Errorf("unknown easter egg %q", c.EasterEgg)
	}
	opts.SecretCode = c.SecretCode
	opts.Trigger = c.Trigger
	return opts, nil
}

// HistoryConfig — где хранить историю. Переменные: CALCULATOR_HISTORY_BACKEND, CALCULATOR_HISTORY_KEY.
type HistoryConfig struct {
	Backend string `default:"sqlite"`
	Key     string `default:"calculatorHistory"`
}

// Config — конфиг приложения. Заполняется через envconfig с префиксом CALCULATOR.
type Config struct {
	Log        logger.Config
	Session    SessionConfig
	History    HistoryConfig
	SQLite     sqlite.Config
	Redis      redis.Config
	DB         pg.Config
	Mongo      mongo.Config
	Kafka      kafka.Config
	ClickHouse click.Config
	Server     http.ServerConfig
}

// LoadCfg загружает конфиг: подтягивает .env (godotenv), затем заполняет структуру из окружения (envconfig).
// Пути к .env можно передать явно; без них читается .env в текущем каталоге.
func LoadCfg(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		log.Printf("config: .env не найден, используем окружение: %v", err)
	}

	var cfg Config
	if err := envconfig.Process(AppName, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
