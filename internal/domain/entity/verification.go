package entity

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

// Поля KYC-ответа, которые не хранятся или не отдаются наружу.
const (
	DetailKeyPhoto       = "photo"
	DetailKeyNIN         = "nin"
	DetailKeyDateOfBirth = "date_of_birth"
	DetailKeyPhoneNumber = "phone_number"
)

// IdentityDetail — нормализованные атрибуты личности из KYC-провайдера.
type IdentityDetail map[string]any

// Without возвращает копию без указанных ключей.
func (d IdentityDetail) Without(keys ...string) IdentityDetail {
	out := make(IdentityDetail, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// String возвращает строковое значение поля или пустую строку.
func (d IdentityDetail) String(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// NinVerification — одна попытка подтверждения личности по NIN.
// Запись на каждый NIN одна и никогда не удаляется.
type NinVerification struct {
	ID          uuid.UUID
	NIN         valueobject.NIN
	Detail      IdentityDetail
	PhoneNumber string
	Token       string
	IsVerified  bool
	UserID      *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewNinVerification(nin valueobject.NIN, detail IdentityDetail, phoneNumber, token string) (*NinVerification, error) {
	if err := valueobject.ValidateToken(token); err != nil {
		return nil, err
	}
	if phoneNumber == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "phone number is required")
	}

	now := time.Now()
	return &NinVerification{
		ID:          uuid.New(),
		NIN:         nin,
		Detail:      detail.Without(DetailKeyPhoto),
		PhoneNumber: phoneNumber,
		Token:       token,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (v *NinVerification) State() valueobject.VerificationState {
	switch {
	case v.UserID != nil:
		return valueobject.VerificationStateLinked
	case v.IsVerified:
		return valueobject.VerificationStateVerified
	default:
		return valueobject.VerificationStatePending
	}
}

func (v *NinVerification) IsLinked() bool {
	return v.UserID != nil
}

// MatchesToken сравнивает токены за постоянное время.
func (v *NinVerification) MatchesToken(token string) bool {
	return subtle.ConstantTimeCompare([]byte(v.Token), []byte(token)) == 1
}

// MarkVerified переводит PENDING в VERIFIED. Повторный вызов ничего не меняет.
func (v *NinVerification) MarkVerified() bool {
	if v.IsVerified {
		return false
	}
	v.IsVerified = true
	v.UpdatedAt = time.Now()
	return true
}

// LinkAccount закрепляет созданный аккаунт за записью (VERIFIED -> LINKED).
func (v *NinVerification) LinkAccount(userID uuid.UUID) error {
	if v.IsLinked() {
		return apperror.ErrDuplicateAccount
	}
	if !v.State().CanTransitionTo(valueobject.VerificationStateLinked) {
		return apperror.New(apperror.ErrCodeBadRequest, "nin verification is not completed")
	}
	v.UserID = &userID
	v.UpdatedAt = time.Now()
	return nil
}

// RedactedDetail возвращает данные для ответа клиенту без NIN и даты рождения.
func (v *NinVerification) RedactedDetail() IdentityDetail {
	return v.Detail.Without(DetailKeyNIN, DetailKeyDateOfBirth, DetailKeyPhoto)
}
