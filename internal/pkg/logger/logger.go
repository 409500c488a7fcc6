package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config — настройки логгера. Переменные: CALCULATOR_LOG_LEVEL, CALCULATOR_LOG_FILE.
type Config struct {
	Level string `default:"info"`
	File  string `default:"calculator.log"`
}

// logWriter открывает файл логов и возвращает writer в файл + stderr.
// Без console пишет только в файл: терминальный интерфейс занимает экран целиком.
// При ошибке открытия файла возвращает stderr (или io.Discard без console).
func logWriter(path string, console bool) io.Writer {
	var f *os.File
	if path != "" {
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			f = nil
		}
	}
	switch {
	case f != nil && console:
		return io.MultiWriter(f, os.Stderr)
	case f != nil:
		return f
	case console:
		return os.Stderr
	default:
		return io.Discard
	}
}

// New возвращает текстовый логгер по конфигу.
func New(cfg Config, console bool) *slog.Logger {
	return NewWithWriter(logWriter(cfg.File, console), cfg.Level)
}

// NewWithWriter возвращает логгер с заданным уровнем (debug, info, warn, error), пишущий в w.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel переводит строку уровня в slog.Level. Неизвестное значение — Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
