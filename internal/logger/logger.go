// Package logger wraps zerolog.Logger with the constructors used by the
// server, the uploader and the setup tooling.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so all zerolog methods are available directly.
type Logger struct {
	zerolog.Logger
}

// New returns a JSON logger writing to stdout with "role" and timestamp fields.
// Unknown levels fall back to info.
func New(role, level string) *Logger {
	return NewWithWriter(os.Stdout, role, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, role, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	l := zerolog.New(w).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Component returns a child logger tagged with a "component" field.
func (l *Logger) Component(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}

// FromContext returns the request-scoped logger attached by the HTTP
// middleware. Without one it returns a disabled logger.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*zerolog.Ctx(ctx)}
}

// Lookup returns the request-scoped logger attached to ctx, if any.
func Lookup(ctx context.Context) (*Logger, bool) {
	l := zerolog.Ctx(ctx)
	if l == nil || l.GetLevel() == zerolog.Disabled {
		return nil, false
	}
	return &Logger{*l}, true
}
