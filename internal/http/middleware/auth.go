package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fme-backend/internal/goroutine"
	"github.com/ignatzorin/fme-backend/internal/logger"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AccessTokenParser проверяет access токен и возвращает владельца.
type AccessTokenParser interface {
	ParseAccess(token string) (uuid.UUID, string, error)
}

// ActivityTracker отмечает активность пользователя.
type ActivityTracker interface {
	TouchLastActive(ctx context.Context, userID uuid.UUID) error
}

// AuthMiddleware проверяет JWT access токен.
func AuthMiddleware(tokens AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		userID, role, err := tokens.ParseAccess(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RequireDashboardRole пропускает только роли с доступом к дашборду.
// Ставится после AuthMiddleware.
func RequireDashboardRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRoleKey)
		roleStr, _ := role.(string)
		if !valueobject.UserRole(roleStr).CanUseDashboard() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Your account type does not have access to this system."})
			return
		}
		c.Next()
	}
}

// LastActiveMiddleware асинхронно обновляет last_active после успешного запроса.
func LastActiveMiddleware(tracker ActivityTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		raw, ok := c.Get(ContextUserIDKey)
		if !ok || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := raw.(uuid.UUID)
		if !ok {
			return
		}

		goroutine.SafeGo(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracker.TouchLastActive(ctx, userID); err != nil && logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"user_id": userID,
					"error":   err.Error(),
				}).Warn("middleware: не удалось обновить last_active")
			}
		})
	}
}
