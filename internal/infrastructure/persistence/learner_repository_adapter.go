package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fme-backend/internal/repository/common"
)

type LearnerRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewLearnerRepositoryAdapter(db sqlx.ExtContext) *LearnerRepositoryAdapter {
	return &LearnerRepositoryAdapter{db: db}
}

func (r *LearnerRepositoryAdapter) CreateUser(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, phone_number, role, status, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.PhoneNumber,
		string(user.Role), string(user.Status), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if common.IsUniqueViolation(err, "users_email_key") {
			return apperror.Wrap(err, apperror.ErrCodeConflict, "user with this email already exists")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать пользователя")
	}
	return nil
}

func (r *LearnerRepositoryAdapter) CreateProfile(ctx context.Context, p *entity.LearnerProfile) error {
	query := `
		INSERT INTO learner_profiles (id, user_id, account_type, learning_track, skill_cluster, work_type,
			industrial_preference, portfolio_link, state, gender, resume_url, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, string(p.AccountType), p.LearningTrack, p.SkillCluster, string(p.WorkType),
		p.IndustrialPreference, p.PortfolioLink, p.State, string(p.Gender), p.ResumeURL, p.Progress,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать профиль")
	}
	return nil
}

func (r *LearnerRepositoryAdapter) CreateSession(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO user_sessions (id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.RefreshToken, s.UserAgent, s.IPAddress, s.ExpiresAt, s.CreatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать сессию")
	}
	return nil
}
