package repository

import (
	"context"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
)

// IdentityLookup запрашивает данные личности у KYC-провайдера.
type IdentityLookup interface {
	LookupNIN(ctx context.Context, nin valueobject.NIN) (entity.IdentityDetail, error)
}

// TokenNotifier доставляет OTP по SMS.
type TokenNotifier interface {
	SendToken(ctx context.Context, phoneNumber, token string) error
}
