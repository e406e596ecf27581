package repository

import (
	"context"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
)

type LearnerRepository interface {
	CreateUser(ctx context.Context, user *entity.User) error
	CreateProfile(ctx context.Context, profile *entity.LearnerProfile) error
	CreateSession(ctx context.Context, session *entity.Session) error
}

// OnboardingTx — репозитории, работающие в одной транзакции.
type OnboardingTx interface {
	Verifications() VerificationRepository
	Learners() LearnerRepository
}

// UnitOfWork выполняет fn в транзакции: ошибка из fn откатывает все изменения.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx OnboardingTx) error) error
}
