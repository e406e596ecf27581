package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fme-backend/internal/logger"
	"github.com/ignatzorin/fme-backend/internal/models"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fme-backend/internal/repository"
	"github.com/ignatzorin/fme-backend/internal/validation"
)

// ErrNoDashboardAccess возвращается для ролей без доступа к дашборду.
var ErrNoDashboardAccess = apperror.New(apperror.ErrCodeForbidden, "Your account type does not have access to this system.")

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	UpdateLastActive(ctx context.Context, userID uuid.UUID) error
}

// AuthService инкапсулирует аутентификацию пользователей дашборда.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог авторизации.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta map[string]string) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "auth service: не удалось получить пользователя")
	}

	if user.PasswordHash == nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := checkDashboardAccess(user); err != nil {
		return nil, err
	}

	// Обновляем время последнего входа
	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		// Логируем ошибку, но не прерываем процесс логина
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Warn("auth service: не удалось обновить last_login_at")
		}
	}

	tokenPair, err := s.issueSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      user,
		TokenPair: tokenPair,
	}, nil
}

// Refresh выпускает новую пару токенов и отзывает старую сессию.
func (s *AuthService) Refresh(ctx context.Context, oldToken string, meta map[string]string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "refresh token is invalid")
	}

	if _, err := s.repo.GetSession(ctx, oldToken); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "session has expired")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "auth service: не удалось получить сессию")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "refresh token is invalid")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "auth service: не удалось получить пользователя")
	}
	if err := checkDashboardAccess(user); err != nil {
		return nil, err
	}

	if err := s.repo.DeleteSession(ctx, oldToken); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "auth service: не удалось удалить сессию")
	}

	return s.issueSession(ctx, user, meta)
}

// Logout удаляет сессию. Неизвестный токен не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "auth service: не удалось удалить сессию")
	}
	return nil
}

// EnsureAdmin создаёт администратора из конфигурации, если его ещё нет.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("auth service: ADMIN_EMAIL: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("auth service: ADMIN_PASSWORD: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}
	hash := string(passHash)

	user := &models.User{
		Email:        email,
		FirstName:    "Admin",
		LastName:     "",
		PasswordHash: &hash,
		Role:         string(valueobject.UserRoleAdmin),
		Status:       string(valueobject.UserStatusActive),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil
		}
		return err
	}

	if logger.Log != nil {
		logger.Log.WithField("user_id", user.ID).Info("auth service: создан администратор по умолчанию")
	}
	return nil
}

// CurrentUser возвращает пользователя дашборда по идентификатору из токена.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "auth service: не удалось получить пользователя")
	}
	if err := checkDashboardAccess(user); err != nil {
		return nil, err
	}
	return user, nil
}

// TouchLastActive отмечает активность пользователя.
func (s *AuthService) TouchLastActive(ctx context.Context, userID uuid.UUID) error {
	return s.repo.UpdateLastActive(ctx, userID)
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User, meta map[string]string) (*TokenPair, error) {
	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "auth service: не удалось выпустить токены")
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	if meta != nil {
		if ua, ok := meta["user_agent"]; ok && ua != "" {
			session.UserAgent = &ua
		}
		if ip, ok := meta["ip"]; ok && ip != "" {
			session.IPAddress = &ip
		}
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "auth service: не удалось сохранить сессию")
	}

	return tokenPair, nil
}

// checkDashboardAccess пускает только активных администраторов.
func checkDashboardAccess(user *models.User) error {
	if !user.IsActive || user.Status == string(valueobject.UserStatusDisabled) {
		return apperror.ErrAccountDisabled
	}
	if !valueobject.UserRole(user.Role).CanUseDashboard() {
		return ErrNoDashboardAccess
	}
	return nil
}
