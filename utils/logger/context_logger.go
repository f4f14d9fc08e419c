package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

const (
	UserIDKey    ContextKey = "user_id"
	RequestIDKey ContextKey = "request_id"

	// Gate-specific keys follow OpenTelemetry naming with an 'sso.' prefix
	TokenSourceKey  ContextKey = "sso.token.source"
	AuthDecisionKey ContextKey = "sso.auth.decision"
)

// contextKeys lists every key WithContext copies into log records.
var contextKeys = []ContextKey{
	UserIDKey,
	RequestIDKey,
	TokenSourceKey,
	AuthDecisionKey,
}

// GlobalContext is the process-wide context logger, assigned by Init.
var GlobalContext *ContextLogger

// ContextLogger decorates log records with request-scoped fields.
type ContextLogger struct {
	logger *slog.Logger
}

// NewContextLogger creates a new context-aware logger.
func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying every context field that is set.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger

	var fields []any
	for _, key := range contextKeys {
		if v := ctx.Value(key); v != nil {
			fields = append(fields, string(key), v)
		}
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// LogDuration records how long an operation took.
func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, ms int64) {
	cl.WithContext(ctx).Info("operation completed",
		"operation", operation,
		"duration_ms", ms,
	)
}

// LogError records a failed operation.
func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).Error("operation failed",
		"operation", operation,
		"error", err.Error(),
	)
}

// WithUserID adds the authenticated subject to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithRequestID adds the inbound request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithTokenSource records where the credential came from, cookie or bearer.
func WithTokenSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, TokenSourceKey, source)
}

// WithAuthDecision records what the gate decided for the request.
func WithAuthDecision(ctx context.Context, decision string) context.Context {
	return context.WithValue(ctx, AuthDecisionKey, decision)
}
