package genostore

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with genostore-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithOrganism adds an organism field to the logger.
func (l *Logger) WithOrganism(org string) *Logger {
	return &Logger{
		Logger: l.Logger.With("organism", org),
	}
}

// LogRegister logs a registration commit.
func (l *Logger) LogRegister(ctx context.Context, org string, domainRows, geneRows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "registration failed",
			"organism", org,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "registration completed",
			"organism", org,
			"domain_rows", domainRows,
			"gene_rows", geneRows,
		)
	}
}

// LogFind logs a query.
func (l *Logger) LogFind(ctx context.Context, expression string, matches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "find failed",
			"expression", expression,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "find completed",
			"expression", expression,
			"matches", matches,
		)
	}
}
