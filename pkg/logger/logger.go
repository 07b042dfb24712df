package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/yanqian/faq-matcher/internal/infra/config"
)

// New constructs the process logger. Production runs log JSON, debug runs log text.
func New(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Log.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "text") || (cfg.Log.Format == "" && !cfg.HTTP.Production) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", cfg.ServiceName)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
