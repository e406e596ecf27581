package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/fme-backend/internal/domain/repository"
	"github.com/ignatzorin/fme-backend/internal/repository/common"
)

// UnitOfWork открывает транзакцию и отдаёт репозитории, привязанные к ней.
type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(tx repository.OnboardingTx) error) error {
	return common.WithTransaction(ctx, u.db, func(tx *sqlx.Tx) error {
		return fn(&onboardingTx{
			verifications: NewVerificationRepositoryAdapter(tx),
			learners:      NewLearnerRepositoryAdapter(tx),
		})
	})
}

type onboardingTx struct {
	verifications *VerificationRepositoryAdapter
	learners      *LearnerRepositoryAdapter
}

func (t *onboardingTx) Verifications() repository.VerificationRepository {
	return t.verifications
}

func (t *onboardingTx) Learners() repository.LearnerRepository {
	return t.learners
}
