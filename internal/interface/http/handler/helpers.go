package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/fme-backend/internal/interface/http/response"
)

// parseVerificationID разбирает id записи; при ошибке сам пишет ответ 400.
func parseVerificationID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "verification_id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
