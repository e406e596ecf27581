package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fme-backend/internal/interface/http/response"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fme-backend/internal/repository"
)

// ErrorHandler отдаёт ошибку, добавленную через c.Error, если хэндлер сам ничего не записал.
// Внутренние причины маскируются в response.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		response.Error(c, translate(c.Errors.Last().Err))
	}
}

// translate приводит ошибки репозиториев к AppError.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return apperror.Wrap(err, apperror.ErrCodeNotFound, apperror.ErrUserNotFound.Message)
	case errors.Is(err, repository.ErrSessionNotFound):
		return apperror.Wrap(err, apperror.ErrCodeUnauthorized, "session has expired")
	case errors.Is(err, repository.ErrEmailTaken):
		return apperror.Wrap(err, apperror.ErrCodeConflict, "user with this email already exists")
	}
	return err
}
