// Package requestctx carries per-request values shared by the HTTP layer and
// the store wrappers beneath it.
package requestctx

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	userKey      ctxKey = "user"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithUser records the signed-in username.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey, username)
}

func GetUser(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userKey).(string)
	return user, ok && user != ""
}

// Logger returns the global logger annotated with the request id and user
// found in ctx.
func Logger(ctx context.Context) zerolog.Logger {
	lc := log.Logger.With()
	if id := GetRequestID(ctx); id != "" {
		lc = lc.Str("requestId", id)
	}
	if user, ok := GetUser(ctx); ok {
		lc = lc.Str("user", user)
	}
	return lc.Logger()
}
