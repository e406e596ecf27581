package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fme-backend/internal/domain/repository"
	"github.com/ignatzorin/fme-backend/internal/metrics"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

type ResendTokenUseCase struct {
	repo     repository.VerificationRepository
	notifier repository.TokenNotifier
	metrics  *metrics.Metrics
}

func NewResendTokenUseCase(repo repository.VerificationRepository, notifier repository.TokenNotifier) *ResendTokenUseCase {
	return &ResendTokenUseCase{repo: repo, notifier: notifier}
}

func (uc *ResendTokenUseCase) SetMetrics(m *metrics.Metrics) {
	uc.metrics = m
}

// Execute повторно отправляет сохранённый токен. Токен не перегенерируется.
func (uc *ResendTokenUseCase) Execute(ctx context.Context, verificationID uuid.UUID) error {
	err := uc.execute(ctx, verificationID)
	uc.metrics.IncStep("resend", outcomeOf(err))
	return err
}

func (uc *ResendTokenUseCase) execute(ctx context.Context, verificationID uuid.UUID) error {
	record, err := uc.repo.FindByID(ctx, verificationID)
	if err != nil {
		return err
	}

	started := time.Now()
	err = uc.notifier.SendToken(ctx, record.PhoneNumber, record.Token)
	uc.metrics.ObserveProvider("sms", err, time.Since(started))
	if err != nil {
		logWarn(logrus.Fields{"verification_id": verificationID, "error": err.Error()}, "verification: не удалось повторно отправить токен")
		return apperror.Wrap(err, apperror.ErrCodeNotificationFailed, apperror.ErrNotificationFailed.Message)
	}

	return nil
}
