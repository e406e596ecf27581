package valueobject

import (
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

const (
	NINLength   = 11
	TokenLength = 5
)

// NIN — национальный идентификационный номер.
type NIN string

func NewNIN(raw string) (NIN, error) {
	if len(raw) != NINLength || !isDigits(raw) {
		return "", apperror.New(apperror.ErrCodeValidation, "nin must be 11 digits")
	}
	return NIN(raw), nil
}

func (n NIN) String() string {
	return string(n)
}

// Masked оставляет только последние четыре цифры, для логов.
func (n NIN) Masked() string {
	if len(n) <= 4 {
		return "****"
	}
	return "*******" + string(n[len(n)-4:])
}

// ValidateToken проверяет формат OTP: ровно пять цифр.
func ValidateToken(token string) error {
	if len(token) != TokenLength || !isDigits(token) {
		return apperror.New(apperror.ErrCodeValidation, "token must be 5 digits")
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
