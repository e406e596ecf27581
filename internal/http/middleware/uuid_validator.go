package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/fme-backend/internal/interface/http/response"
)

// UUIDQueryValidator проверяет, что query параметр с указанным именем является валидным UUID.
// Использование: router.POST("/create_learner_profile", UUIDQueryValidator("verification_id"), handler)
func UUIDQueryValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Query(paramName)
		if idStr == "" {
			response.BadRequest(c, paramName+" is required")
			c.Abort()
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			response.BadRequest(c, paramName+" must be a valid UUID")
			c.Abort()
			return
		}

		c.Next()
	}
}
