package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fme-backend/internal/logger"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

// requestMeta собирает данные клиента для сессии.
func requestMeta(c *gin.Context) map[string]string {
	return map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}
}

// respondError отдаёт ошибку в формате {"error": ...} со статусом AppError.
// Причины 5xx только логируются.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
		return
	}

	if logger.Log != nil {
		logger.Log.WithField("error", err.Error()).Error("handlers: внутренняя ошибка")
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
