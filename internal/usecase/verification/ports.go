package verification

import "context"

// AttemptGuard ограничивает число неверных токенов на одну запись.
type AttemptGuard interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// EventPublisher рассылает события онбординга (например, в дашборд).
type EventPublisher interface {
	Publish(event string, data any)
}

const (
	EventVerificationStarted   = "verification.started"
	EventVerificationCompleted = "verification.completed"
)
