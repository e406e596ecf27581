package ratelimit

import (
	"context"
	"time"

	"github.com/ulule/limiter/v3"
)

// AttemptLimiter считает неудачные попытки по ключу в скользящем окне.
// Счётчик растёт только через Fail, поэтому успешные попытки лимит не расходуют.
type AttemptLimiter struct {
	limiter *limiter.Limiter
}

func NewAttemptLimiter(store limiter.Store, maxFailures int64, window time.Duration) *AttemptLimiter {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &AttemptLimiter{
		limiter: limiter.New(store, limiter.Rate{Period: window, Limit: maxFailures}),
	}
}

// Allow проверяет, остались ли попытки у ключа.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	state, err := l.limiter.Peek(ctx, key)
	if err != nil {
		return false, err
	}
	return !state.Reached && state.Remaining > 0, nil
}

func (l *AttemptLimiter) Fail(ctx context.Context, key string) error {
	_, err := l.limiter.Get(ctx, key)
	return err
}

func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	_, err := l.limiter.Reset(ctx, key)
	return err
}
