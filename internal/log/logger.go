// Package log wraps slog so every record carries a component attribute.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger tagged with the component it belongs to. The
// component attribute is baked into the handler chain, so it appears on
// every record without per-call boilerplate.
type Logger struct {
	*slog.Logger
	component string
}

type Config struct {
	Level     slog.Level
	Component string
	// Handler overrides the default text handler, mainly for tests.
	Handler slog.Handler
}

// New builds a component-tagged logger writing text records to stdout.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}

	component := config.Component
	if component == "" {
		component = "app"
	}

	return &Logger{
		Logger:    slog.New(handler).With("component", component),
		component: component,
	}
}

// WithComponent returns a logger for a sub-component. The new component
// attribute is appended, keeping the parent tag visible in the record.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With("component", component),
		component: component,
	}
}

// With returns a logger with extra attributes under the same component.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		component: l.component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault routes the package-level slog helpers through this logger,
// so code deep in the call tree inherits the component attribute.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
