package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest     ErrorCode = "BAD_REQUEST"
	ErrCodeConflict       ErrorCode = "CONFLICT"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation     ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError  ErrorCode = "DATABASE_ERROR"
	ErrCodeTooManyAttempt ErrorCode = "TOO_MANY_ATTEMPTS"

	// Ошибки процесса верификации NIN.
	ErrCodeIdentityLookupFailed ErrorCode = "IDENTITY_LOOKUP_FAILED"
	ErrCodeNotificationFailed   ErrorCode = "NOTIFICATION_FAILED"
	ErrCodeDuplicateAccount     ErrorCode = "DUPLICATE_ACCOUNT"
	ErrCodeTokenMismatch        ErrorCode = "TOKEN_MISMATCH"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation,
		ErrCodeIdentityLookupFailed, ErrCodeNotificationFailed,
		ErrCodeDuplicateAccount, ErrCodeTokenMismatch:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTooManyAttempt:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или пустую строку, если это не AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

var (
	ErrVerificationNotFound = New(ErrCodeNotFound, "verification record not found")
	ErrUserNotFound         = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden            = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials   = New(ErrCodeUnauthorized, "Invalid email/password combination.")
	ErrAccountDisabled      = New(ErrCodeForbidden, "This account has been disabled.")

	ErrIdentityLookupFailed = New(ErrCodeIdentityLookupFailed, "Unable to verify nin")
	ErrNotificationFailed   = New(ErrCodeNotificationFailed, "Unable to send sms token")
	ErrDuplicateAccount     = New(ErrCodeDuplicateAccount, "User already exist")
	ErrTokenMismatch        = New(ErrCodeTokenMismatch, "Invalid verification token")
	ErrTooManyAttempts      = New(ErrCodeTooManyAttempt, "Too many invalid attempts, try again later")
	ErrVerificationConflict = New(ErrCodeConflict, "verification record already exists")
)
