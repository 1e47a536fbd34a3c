package logging

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type contextKey string

// SessionIDKey is the context key for the session ID picked up by the logger
const SessionIDKey contextKey = "session_id"

// WithSessionID adds a session ID to the context for log enrichment
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// Logger is an interface for logging
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
}

// ZeroLogger implements Logger using zerolog
type ZeroLogger struct {
	logger zerolog.Logger
}

// Option configures a ZeroLogger
type Option func(*ZeroLogger)

// WithLevel sets the minimum level from its string name
func WithLevel(level string) Option {
	return func(l *ZeroLogger) {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			parsed = zerolog.InfoLevel
		}
		l.logger = l.logger.Level(parsed)
	}
}

// New creates a new ZeroLogger writing to stderr
func New(options ...Option) *ZeroLogger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := &ZeroLogger{
		logger: zerolog.New(output).With().Timestamp().Logger(),
	}

	for _, option := range options {
		option(logger)
	}

	return logger
}

func (l *ZeroLogger) log(ctx context.Context, event *zerolog.Event, msg string, fields map[string]interface{}) {
	if sessionID, ok := ctx.Value(SessionIDKey).(string); ok {
		event = event.Str("session_id", sessionID)
	}

	for k, v := range fields {
		event = event.Interface(k, v)
	}

	event.Msg(msg)
}

// Info logs an info message
func (l *ZeroLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, l.logger.Info(), msg, fields)
}

// Warn logs a warning message
func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, l.logger.Warn(), msg, fields)
}

// Error logs an error message
func (l *ZeroLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, l.logger.Error(), msg, fields)
}

// Debug logs a debug message
func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.log(ctx, l.logger.Debug(), msg, fields)
}
