package web

import (
	"context"
	"log/slog"
)

const serviceName = "taper"

func httpLogger() *slog.Logger {
	return slog.Default().With(
		"service", serviceName,
		"module", "http",
	)
}

func logOperationError(ctx context.Context, operation string, statusCode int, err error) {
	fields := []any{
		"operation", operation,
		"outcome", "failure",
		"status_code", statusCode,
		"request_id", requestIDFromContext(ctx),
		"error", err,
	}
	if statusCode >= 500 {
		httpLogger().ErrorContext(ctx, "request failed", fields...)
		return
	}
	httpLogger().WarnContext(ctx, "request rejected", fields...)
}
