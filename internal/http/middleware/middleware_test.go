package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/fme-backend/internal/repository"
)

type stubTokens struct {
	userID uuid.UUID
	role   string
}

func (s stubTokens) ParseAccess(token string) (uuid.UUID, string, error) {
	if token != "good" {
		return uuid.Nil, "", errors.New("bad token")
	}
	return s.userID, s.role, nil
}

type recordingTracker struct {
	calls chan uuid.UUID
}

func (r *recordingTracker) TouchLastActive(ctx context.Context, userID uuid.UUID) error {
	r.calls <- userID
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	id := uuid.New()
	r := gin.New()
	r.GET("/me", AuthMiddleware(stubTokens{userID: id, role: "ADMIN"}), RequireDashboardRole(), func(c *gin.Context) {
		got, _ := c.Get(ContextUserIDKey)
		c.String(http.StatusOK, got.(uuid.UUID).String())
	})

	w := perform(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())
}

func TestRequireDashboardRole_RejectsLearner(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(stubTokens{userID: uuid.New(), role: "LEARNER"}), RequireDashboardRole(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer good"})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLastActiveMiddleware(t *testing.T) {
	id := uuid.New()
	tracker := &recordingTracker{calls: make(chan uuid.UUID, 1)}
	r := gin.New()
	r.GET("/me", AuthMiddleware(stubTokens{userID: id, role: "ADMIN"}), LastActiveMiddleware(tracker), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	perform(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer good"})

	select {
	case got := <-tracker.calls:
		assert.Equal(t, id, got)
	case <-time.After(time.Second):
		t.Fatal("last_active не обновлён")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(memory.NewStore(), "test", 2, time.Minute))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", nil).Code)

	w := perform(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitMiddleware_GroupsAreIndependent(t *testing.T) {
	store := memory.NewStore()
	r := gin.New()
	r.GET("/a", RateLimitMiddleware(store, "a", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", RateLimitMiddleware(store, "b", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/a", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/b", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodGet, "/a", nil).Code)
}

func TestUUIDQueryValidator(t *testing.T) {
	r := gin.New()
	r.POST("/x", UUIDQueryValidator("verification_id"), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/x", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/x?verification_id=nope", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/x?verification_id="+uuid.NewString(), nil).Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodOptions, "/x", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/x", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(repository.ErrUserNotFound) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })

	w := perform(r, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(r, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
