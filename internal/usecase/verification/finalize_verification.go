package verification

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/repository"
	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fme-backend/internal/metrics"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

type FinalizeVerificationUseCase struct {
	repo     repository.VerificationRepository
	attempts AttemptGuard
	events   EventPublisher
	metrics  *metrics.Metrics
}

// NewFinalizeVerificationUseCase создаёт use case. При attempts == nil попытки не ограничены.
func NewFinalizeVerificationUseCase(repo repository.VerificationRepository, attempts AttemptGuard) *FinalizeVerificationUseCase {
	return &FinalizeVerificationUseCase{repo: repo, attempts: attempts}
}

func (uc *FinalizeVerificationUseCase) SetEvents(events EventPublisher) {
	uc.events = events
}

func (uc *FinalizeVerificationUseCase) SetMetrics(m *metrics.Metrics) {
	uc.metrics = m
}

// Execute сверяет токен и подтверждает запись. Возвращает запись для формирования ответа.
func (uc *FinalizeVerificationUseCase) Execute(ctx context.Context, verificationID uuid.UUID, token string) (*entity.NinVerification, error) {
	record, err := uc.execute(ctx, verificationID, token)
	uc.metrics.IncStep("finalize", outcomeOf(err))
	return record, err
}

func (uc *FinalizeVerificationUseCase) execute(ctx context.Context, verificationID uuid.UUID, token string) (*entity.NinVerification, error) {
	if err := valueobject.ValidateToken(token); err != nil {
		return nil, err
	}

	record, err := uc.repo.FindByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}

	key := verificationID.String()
	if uc.attempts != nil {
		allowed, err := uc.attempts.Allow(ctx, key)
		if err != nil {
			// Хранилище лимитов недоступно: не блокируем пользователя.
			logWarn(logrus.Fields{"verification_id": key, "error": err.Error()}, "verification: не удалось проверить лимит попыток")
		} else if !allowed {
			return nil, apperror.ErrTooManyAttempts
		}
	}

	if !record.MatchesToken(token) {
		if uc.attempts != nil {
			if err := uc.attempts.Fail(ctx, key); err != nil {
				logWarn(logrus.Fields{"verification_id": key, "error": err.Error()}, "verification: не удалось учесть неверную попытку")
			}
		}
		return nil, apperror.ErrTokenMismatch
	}

	if record.MarkVerified() {
		if err := uc.repo.MarkVerified(ctx, record.ID); err != nil {
			return nil, err
		}
		if uc.events != nil {
			uc.events.Publish(EventVerificationCompleted, map[string]any{
				"verification_id": record.ID,
				"first_name":      record.Detail.String("first_name"),
				"last_name":       record.Detail.String("last_name"),
			})
		}
	}

	if uc.attempts != nil {
		if err := uc.attempts.Reset(ctx, key); err != nil {
			logWarn(logrus.Fields{"verification_id": key, "error": err.Error()}, "verification: не удалось сбросить счётчик попыток")
		}
	}

	return record, nil
}
