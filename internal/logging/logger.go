package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"airmonitor/internal/config"
)

// New builds the process logger: a colorized tint handler for dev builds,
// JSON for released ones. When console logging is disabled by
// configuration, records are discarded entirely; there is no other
// user-facing output channel.
func New(cfg config.Config, version string, appName string) *slog.Logger {
	var out io.Writer = os.Stdout
	if !cfg.ConsoleLogEnabled {
		out = io.Discard
	}

	if version == "dev" {
		h := tint.NewHandler(out, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
