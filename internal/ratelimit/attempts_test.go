package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int64) *AttemptLimiter {
	t.Helper()
	store, err := NewStore(nil, "test")
	require.NoError(t, err)
	return NewAttemptLimiter(store, max, time.Minute)
}

func TestAttemptLimiter_BlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "record-1")
		require.NoError(t, err)
		assert.True(t, allowed, "попытка %d", i+1)
		require.NoError(t, l.Fail(ctx, "record-1"))
	}

	allowed, err := l.Allow(ctx, "record-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Другой ключ не затронут.
	allowed, err = l.Allow(ctx, "record-2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAttemptLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(t, 1)

	require.NoError(t, l.Fail(ctx, "k"))
	allowed, _ := l.Allow(ctx, "k")
	assert.False(t, allowed)

	require.NoError(t, l.Reset(ctx, "k"))
	allowed, _ = l.Allow(ctx, "k")
	assert.True(t, allowed)
}

func TestNewRedisClient_EmptyURL(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "://bad")
	assert.Error(t, err)
}
