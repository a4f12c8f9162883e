// Package logging builds the slog logger used for diagnostics. Output for
// the user goes to stdout directly; this logger writes to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type Option func(*options)

type options struct {
	writer  io.Writer
	session string
}

// WithWriter redirects log output (default os.Stderr).
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithSession sets the session id attached to every record. A random one
// is generated otherwise.
func WithSession(id string) Option {
	return func(o *options) {
		o.session = id
	}
}

// New returns a text logger at the given level with a "session" attribute.
func New(level string, opts ...Option) *slog.Logger {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.writer == nil {
		cfg.writer = os.Stderr
	}
	if cfg.session == "" {
		cfg.session = uuid.NewString()
	}

	handler := slog.NewTextHandler(cfg.writer, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler).With("session", cfg.session)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
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
