package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
)

// VerificationRepository хранит записи верификации NIN.
//
// Create возвращает apperror.ErrVerificationConflict, если запись с таким NIN
// уже существует. FindByID и FindByNIN возвращают apperror.ErrVerificationNotFound.
// LinkAccount обновляет только подтверждённую и ещё не привязанную запись.
type VerificationRepository interface {
	Create(ctx context.Context, v *entity.NinVerification) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.NinVerification, error)
	FindByNIN(ctx context.Context, nin valueobject.NIN) (*entity.NinVerification, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	LinkAccount(ctx context.Context, id, userID uuid.UUID) error
}
