// Package observability provides logging initialization.
package observability

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/stolasapp/quill/internal/config"
)

// InitSlog initializes a logger with the given config. When running in a
// terminal, it uses a human-readable text format; otherwise it uses JSON for
// structured logging.
func InitSlog(cfg *config.Config) *slog.Logger {
	return newLogger(cfg, os.Stderr, term.IsTerminal(int(os.Stdin.Fd())))
}

func newLogger(cfg *config.Config, w io.Writer, text bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.DevMode,
		Level:     cfg.Level(),
	}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ConfigAttrs renders cfg for logging, without the secret key.
func ConfigAttrs(cfg *config.Config) slog.Attr {
	return slog.Group("config",
		slog.String("log_level", cfg.LogLevel),
		slog.String("web_address", cfg.WebAddress),
		slog.String("db_filepath", cfg.DBFilepath),
		slog.Int("db_max_conns", cfg.DBMaxConns),
		slog.Bool("secure_cookies", cfg.SecureCookies),
		slog.Bool("csrf", cfg.CSRF),
		slog.Bool("dev_mode", cfg.DevMode),
	)
}
