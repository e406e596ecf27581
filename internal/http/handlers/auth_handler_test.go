package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/fme-backend/internal/http/middleware"
	"github.com/ignatzorin/fme-backend/internal/models"
	"github.com/ignatzorin/fme-backend/internal/repository"
	"github.com/ignatzorin/fme-backend/internal/service"
	"github.com/ignatzorin/fme-backend/internal/ws"
)

// memoryUsers — минимальный AuthRepository в памяти.
type memoryUsers struct {
	users    map[string]*models.User
	sessions map[string]*models.Session
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*models.User{}, sessions: map[string]*models.Session{}}
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	user.IsActive = true
	m.users[user.Email] = user
	return nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) CreateSession(ctx context.Context, s *models.Session) error {
	m.sessions[s.RefreshToken] = s
	return nil
}

func (m *memoryUsers) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (m *memoryUsers) DeleteSession(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *memoryUsers) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error { return nil }
func (m *memoryUsers) UpdateLastActive(ctx context.Context, id uuid.UUID) error { return nil }

func (m *memoryUsers) add(t *testing.T, email, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	m.users[email] = &models.User{ID: uuid.New(), Email: email, PasswordHash: &h, Role: role, Status: "ACTIVE", IsActive: true}
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *memoryUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemoryUsers()
	tokens := service.NewTokenManager("a", "b", time.Minute, time.Hour)
	h := NewAuthHandler(service.NewAuthService(users, tokens))

	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/refresh", h.Refresh)
	r.POST("/logout", h.Logout)
	r.GET("/me", middleware.AuthMiddleware(tokens), h.Me)
	return r, users
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_LoginRefreshLogout(t *testing.T) {
	r, users := setupAuthRouter(t)
	users.add(t, "admin@example.com", "ADMIN")

	w := postJSON(r, "/login", `{"email":"admin@example.com","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		User   map[string]any    `json:"user"`
		Tokens service.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Tokens.AccessToken)
	assert.NotContains(t, w.Body.String(), "password_hash")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Tokens.AccessToken)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "admin@example.com")

	w = postJSON(r, "/refresh", `{"refresh_token":"`+login.Tokens.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var refreshed struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))

	w = postJSON(r, "/logout", `{"refresh_token":"`+refreshed.Tokens.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, users.sessions)
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	r, users := setupAuthRouter(t)
	users.add(t, "admin@example.com", "ADMIN")
	users.add(t, "learner@example.com", "LEARNER")

	w := postJSON(r, "/login", `{"email":"admin@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/login", `{"email":"admin@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email/password combination.")

	w = postJSON(r, "/login", `{"email":"learner@example.com","password":"Secret123"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_RefreshUnknownToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := postJSON(r, "/refresh", `{"refresh_token":"garbage"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWSHandler_RequiresDashboardRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	tokens := service.NewTokenManager("a", "b", time.Minute, time.Hour)
	h := NewWSHandler(hub, tokens, []string{"*"})

	r := gin.New()
	r.GET("/ws", h.Handle)
	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token="

	learner, _, _, err := tokens.GeneratePair(uuid.New(), "LEARNER")
	require.NoError(t, err)
	_, resp, err := websocket.DefaultDialer.Dial(base+learner.AccessToken, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin, _, _, err := tokens.GeneratePair(uuid.New(), "ADMIN")
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(base+admin.AccessToken, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}
