package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/repository"
	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fme-backend/internal/metrics"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

type InitiateResult struct {
	VerificationID uuid.UUID
	// Created равен false, если вернули уже существующую запись.
	Created bool
}

type InitiateVerificationUseCase struct {
	repo          repository.VerificationRepository
	lookup        repository.IdentityLookup
	notifier      repository.TokenNotifier
	normalizer    valueobject.PhoneNormalizer
	generateToken func() (string, error)
	events        EventPublisher
	metrics       *metrics.Metrics
}

func NewInitiateVerificationUseCase(
	repo repository.VerificationRepository,
	lookup repository.IdentityLookup,
	notifier repository.TokenNotifier,
	normalizer valueobject.PhoneNormalizer,
) *InitiateVerificationUseCase {
	if normalizer == nil {
		normalizer = valueobject.NigerianPhoneNormalizer
	}
	return &InitiateVerificationUseCase{
		repo:          repo,
		lookup:        lookup,
		notifier:      notifier,
		normalizer:    normalizer,
		generateToken: GenerateToken,
	}
}

func (uc *InitiateVerificationUseCase) SetEvents(events EventPublisher) {
	uc.events = events
}

func (uc *InitiateVerificationUseCase) SetMetrics(m *metrics.Metrics) {
	uc.metrics = m
}

// Execute запускает верификацию. Запись создаётся только после успешных KYC и SMS.
func (uc *InitiateVerificationUseCase) Execute(ctx context.Context, rawNIN string) (*InitiateResult, error) {
	result, err := uc.execute(ctx, rawNIN)
	uc.metrics.IncStep("initiate", outcomeOf(err))
	return result, err
}

func (uc *InitiateVerificationUseCase) execute(ctx context.Context, rawNIN string) (*InitiateResult, error) {
	nin, err := valueobject.NewNIN(rawNIN)
	if err != nil {
		return nil, err
	}

	if existing, err := uc.existing(ctx, nin); err != nil || existing != nil {
		return existing, err
	}

	started := time.Now()
	detail, err := uc.lookup.LookupNIN(ctx, nin)
	uc.metrics.ObserveProvider("kyc", err, time.Since(started))
	if err != nil {
		logWarn(logrus.Fields{"nin": nin.Masked(), "error": err.Error()}, "verification: KYC-провайдер не подтвердил NIN")
		return nil, apperror.Wrap(err, apperror.ErrCodeIdentityLookupFailed, apperror.ErrIdentityLookupFailed.Message)
	}

	phone := uc.normalizer.Normalize(detail.String(entity.DetailKeyPhoneNumber))
	if phone == "" {
		logWarn(logrus.Fields{"nin": nin.Masked()}, "verification: в ответе KYC нет номера телефона")
		return nil, apperror.ErrIdentityLookupFailed
	}

	token, err := uc.generateToken()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать токен")
	}

	record, err := entity.NewNinVerification(nin, detail, phone, token)
	if err != nil {
		return nil, err
	}

	started = time.Now()
	err = uc.notifier.SendToken(ctx, phone, token)
	uc.metrics.ObserveProvider("sms", err, time.Since(started))
	if err != nil {
		logWarn(logrus.Fields{"nin": nin.Masked(), "error": err.Error()}, "verification: не удалось отправить SMS с токеном")
		return nil, apperror.Wrap(err, apperror.ErrCodeNotificationFailed, apperror.ErrNotificationFailed.Message)
	}

	if err := uc.repo.Create(ctx, record); err != nil {
		if !apperror.IsConflict(err) {
			return nil, err
		}
		// Параллельный запрос успел создать запись: отдаём её.
		logWarn(logrus.Fields{"nin": nin.Masked()}, "verification: конфликт при создании записи, используем существующую")
		winner, err := uc.existing(ctx, nin)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, apperror.New(apperror.ErrCodeInternal, "запись верификации не найдена после конфликта")
		}
		return winner, nil
	}

	if uc.events != nil {
		uc.events.Publish(EventVerificationStarted, map[string]any{
			"verification_id": record.ID,
			"created_at":      record.CreatedAt,
		})
	}

	return &InitiateResult{VerificationID: record.ID, Created: true}, nil
}

// existing возвращает id уже начатой верификации или DuplicateAccount для привязанного NIN.
func (uc *InitiateVerificationUseCase) existing(ctx context.Context, nin valueobject.NIN) (*InitiateResult, error) {
	record, err := uc.repo.FindByNIN(ctx, nin)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if record.IsLinked() {
		return nil, apperror.ErrDuplicateAccount
	}
	return &InitiateResult{VerificationID: record.ID}, nil
}
