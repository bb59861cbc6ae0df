package requestctx

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	_, ok := GetUser(ctx)
	assert.False(t, ok)

	ctx = WithUser(WithRequestID(ctx, "req-1"), "admin")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	user, ok := GetUser(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin", user)

	_, ok = GetUser(WithUser(context.Background(), ""))
	assert.False(t, ok)
}

func TestLoggerAnnotatesRequest(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	ctx := WithUser(WithRequestID(context.Background(), "req-9"), "admin")
	logger := Logger(ctx)
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"requestId":"req-9"`)
	assert.Contains(t, buf.String(), `"user":"admin"`)
}
