package server

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"bostoninfo/server/middleware"
)

var (
	// Logger глобальный структурированный логгер
	Logger *slog.Logger

	logLevel = new(slog.LevelVar)
)

func init() {
	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
	}

	Logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// SetLogLevel меняет уровень глобального логгера (DEBUG, INFO, WARN, ERROR)
func SetLogLevel(level string) {
	logLevel.Set(ParseLogLevel(level))
}

// ParseLogLevel разбирает уровень логирования, по умолчанию INFO
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogError логирует ошибку с request ID из контекста
func LogError(ctx context.Context, err error, msg string, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", middleware.GetRequestID(ctx))
	Logger.Error(msg, attrs...)
}

// LogWarn логирует предупреждение
func LogWarn(ctx context.Context, msg string, attrs ...any) {
	attrs = append(attrs, "request_id", middleware.GetRequestID(ctx))
	Logger.Warn(msg, attrs...)
}

// LogInfo логирует информационное сообщение
func LogInfo(ctx context.Context, msg string, attrs ...any) {
	attrs = append(attrs, "request_id", middleware.GetRequestID(ctx))
	Logger.Info(msg, attrs...)
}

// LogDuration логирует продолжительность выполнения операции
func LogDuration(ctx context.Context, operation string, duration time.Duration, attrs ...any) {
	attrs = append(attrs, "request_id", middleware.GetRequestID(ctx), "duration_ms", duration.Milliseconds())
	Logger.Info(operation+" completed", attrs...)
}
