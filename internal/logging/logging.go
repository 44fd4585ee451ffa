// Package logging wraps slog with the JSON/text handler setup used across
// the service and a small vocabulary of field helpers so log output stays
// greppable.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type requestIDKey struct{}

// ContextWithRequestID stores a request ID for later retrieval by
// WithContext. The request-id middleware is the only writer.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the stored request ID, or "" if absent.
func RequestIDFromContext(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

type Logger struct {
	*slog.Logger
}

// New creates a Logger at the given level. format is "json" (default) or
// "text".
func New(level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelError,
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// SetDefault installs l as the process default, so slog.Info and friends
// route through it.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}

// WithContext returns a logger carrying the request ID from ctx, if any.
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	if reqID := RequestIDFromContext(ctx); reqID != "" {
		return l.Logger.With(slog.String("request_id", reqID))
	}
	return l.Logger
}

// With returns a new logger with the given attributes added.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// ParseLevel converts a config string to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Common field names.
const (
	FieldEmail    = "email"
	FieldUserUID  = "user_uid"
	FieldBookUID  = "book_uid"
	FieldJTI      = "jti"
	FieldClientIP = "client_ip"
	FieldError    = "error"
)

// Email returns a slog attribute for a user email.
func Email(email string) slog.Attr {
	return slog.String(FieldEmail, email)
}

// UserUID returns a slog attribute for a user uid.
func UserUID(uid string) slog.Attr {
	return slog.String(FieldUserUID, uid)
}

// BookUID returns a slog attribute for a book uid.
func BookUID(uid string) slog.Attr {
	return slog.String(FieldBookUID, uid)
}

// JTI returns a slog attribute for a token id.
func JTI(jti string) slog.Attr {
	return slog.String(FieldJTI, jti)
}

// ClientIP returns a slog attribute for the caller's address.
func ClientIP(ip string) slog.Attr {
	return slog.String(FieldClientIP, ip)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
