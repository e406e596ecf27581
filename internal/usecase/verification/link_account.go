package verification

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/repository"
	"github.com/ignatzorin/fme-backend/internal/metrics"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

// LinkAccountUseCase закрепляет созданный аккаунт за подтверждённой записью.
// Вызывается только из потока создания профиля, наружу не публикуется.
type LinkAccountUseCase struct {
	repo    repository.VerificationRepository
	metrics *metrics.Metrics
}

func NewLinkAccountUseCase(repo repository.VerificationRepository) *LinkAccountUseCase {
	return &LinkAccountUseCase{repo: repo}
}

func (uc *LinkAccountUseCase) SetMetrics(m *metrics.Metrics) {
	uc.metrics = m
}

// EnsureLinkable проверяет, что запись существует, подтверждена и ещё не привязана.
func (uc *LinkAccountUseCase) EnsureLinkable(ctx context.Context, verificationID uuid.UUID) (*entity.NinVerification, error) {
	record, err := uc.repo.FindByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}
	if record.IsLinked() {
		return nil, apperror.ErrDuplicateAccount
	}
	if !record.IsVerified {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "nin verification is not completed")
	}
	return record, nil
}

// Execute выполняет привязку через repo, переданный вызывающим (обычно в транзакции).
func (uc *LinkAccountUseCase) Execute(ctx context.Context, repo repository.VerificationRepository, verificationID, userID uuid.UUID) error {
	err := uc.link(ctx, repo, verificationID, userID)
	uc.metrics.IncStep("link", outcomeOf(err))
	return err
}

func (uc *LinkAccountUseCase) link(ctx context.Context, repo repository.VerificationRepository, verificationID, userID uuid.UUID) error {
	if repo == nil {
		repo = uc.repo
	}

	record, err := repo.FindByID(ctx, verificationID)
	if err != nil {
		return err
	}
	if err := record.LinkAccount(userID); err != nil {
		return err
	}
	return repo.LinkAccount(ctx, verificationID, userID)
}
