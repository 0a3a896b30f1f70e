package logger

import (
	"os"

	"golang.org/x/exp/slog"

	"minetrack/internal/app/server/config"
)

// New создает логгер в зависимости от окружения:
// local — человекочитаемый текстовый вывод с уровнем DEBUG,
// dev — JSON с уровнем DEBUG, prod — JSON с уровнем INFO.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return setupPrettySlog()
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
}

func setupPrettySlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
