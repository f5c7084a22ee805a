package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
)

// New builds the process logger. Console output is for local runs; JSON output
// redacts credentials and reporter contact details.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := parseLevel(level)

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
			// Attribute keys use JSON spelling; struct fields match by Go name
			// or by a `masq:"secret"` tag.
			ReplaceAttr: masq.New(
				masq.WithTag("secret"),
				masq.WithFieldName("password"),
				masq.WithFieldName("Password"),
				masq.WithFieldName("passwordHash"),
				masq.WithFieldName("PasswordHash"),
				masq.WithFieldName("token"),
				masq.WithFieldName("Token"),
				masq.WithFieldName("reporterEmail"),
				masq.WithFieldName("ReporterEmail"),
			),
		}))
	}

	return slog.New(clog.New(
		clog.WithWriter(w),
		clog.WithLevel(lvl),
		clog.WithColor(true),
	))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
