package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	envProduction = "production"
)

type LoggerAdapter struct {
	logger *slog.Logger
}

func NewLoggerAdapter(env string) ports.LoggerPort {
	return NewLoggerAdapterWriter(env, os.Stdout)
}

// NewLoggerAdapterWriter is NewLoggerAdapter writing to w.
func NewLoggerAdapterWriter(env string, w io.Writer) ports.LoggerPort {
	var log *slog.Logger

	switch env {
	case envLocal, envDev:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd, envProduction:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return &LoggerAdapter{
		logger: log,
	}
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Info(msg)
		return
	}
	l.logger.Info(msg, slog.Any("fields", fields))
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Error(msg)
		return
	}
	l.logger.Error(msg, slog.Any("fields", fields))
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Debug(msg)
		return
	}
	l.logger.Debug(msg, slog.Any("fields", fields))
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	if fields == nil {
		l.logger.Warn(msg)
		return
	}
	l.logger.Warn(msg, slog.Any("fields", fields))
}
