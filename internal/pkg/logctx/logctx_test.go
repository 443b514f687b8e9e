package logctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()

	_, ok := RequestID(ctx)
	assert.False(t, ok)
	assert.Empty(t, Fields(ctx))

	ctx = WithRequestID(ctx, "req-1")
	id, ok := RequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-1", id)

	fields := Fields(ctx)
	if assert.Len(t, fields, 1) {
		assert.Equal(t, "request_id", fields[0].Key)
		assert.Equal(t, "req-1", fields[0].String)
	}
}

func TestRequestID_EmptyIgnored(t *testing.T) {
	_, ok := RequestID(WithRequestID(context.Background(), ""))
	assert.False(t, ok)
}
