package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fme-backend/internal/repository/common"
)

const ninUniqueConstraint = "nin_verifications_nin_key"

const selectVerification = `
	SELECT id, nin, nin_detail, phone_number, verification_token, is_verified, user_id, created_at, updated_at
	FROM nin_verifications
`

// VerificationRepositoryAdapter работает как с *sqlx.DB, так и с *sqlx.Tx.
type VerificationRepositoryAdapter struct {
	db sqlx.ExtContext
}

func NewVerificationRepositoryAdapter(db sqlx.ExtContext) *VerificationRepositoryAdapter {
	return &VerificationRepositoryAdapter{db: db}
}

func (r *VerificationRepositoryAdapter) Create(ctx context.Context, v *entity.NinVerification) error {
	detail, err := json.Marshal(v.Detail)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать данные KYC")
	}

	query := `
		INSERT INTO nin_verifications (id, nin, nin_detail, phone_number, verification_token, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)
	`
	// jsonb передаём строкой: []byte lib/pq отправит как bytea.
	_, err = r.db.ExecContext(ctx, query,
		v.ID, v.NIN.String(), string(detail), v.PhoneNumber, v.Token, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if common.IsUniqueViolation(err, ninUniqueConstraint) {
			return apperror.Wrap(err, apperror.ErrCodeConflict, apperror.ErrVerificationConflict.Message)
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать запись верификации")
	}
	return nil
}

func (r *VerificationRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.NinVerification, error) {
	return r.findOne(ctx, selectVerification+` WHERE id = $1`, id)
}

func (r *VerificationRepositoryAdapter) FindByNIN(ctx context.Context, nin valueobject.NIN) (*entity.NinVerification, error) {
	return r.findOne(ctx, selectVerification+` WHERE nin = $1`, nin.String())
}

func (r *VerificationRepositoryAdapter) findOne(ctx context.Context, query string, arg interface{}) (*entity.NinVerification, error) {
	row, err := common.GetByField[ninVerificationRow](ctx, r.db, query, arg, apperror.ErrVerificationNotFound)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить запись верификации")
	}
	return row.toEntity()
}

func (r *VerificationRepositoryAdapter) MarkVerified(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE nin_verifications SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось подтвердить запись верификации")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrVerificationNotFound
	}
	return nil
}

// LinkAccount привязывает пользователя только к подтверждённой непривязанной записи.
func (r *VerificationRepositoryAdapter) LinkAccount(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE nin_verifications SET user_id = $2, updated_at = NOW()
		WHERE id = $1 AND is_verified = TRUE AND user_id IS NULL
	`, id, userID)
	if err != nil {
		if common.IsUniqueViolation(err, "") {
			return apperror.Wrap(err, apperror.ErrCodeDuplicateAccount, apperror.ErrDuplicateAccount.Message)
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось привязать аккаунт")
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	// Ничего не обновили: выясняем причину по текущему состоянию.
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := current.LinkAccount(userID); err != nil {
		return err
	}
	return apperror.New(apperror.ErrCodeConflict, "verification record changed concurrently")
}

type ninVerificationRow struct {
	ID          uuid.UUID  `db:"id"`
	NIN         string     `db:"nin"`
	Detail      []byte     `db:"nin_detail"`
	PhoneNumber string     `db:"phone_number"`
	Token       string     `db:"verification_token"`
	IsVerified  bool       `db:"is_verified"`
	UserID      *uuid.UUID `db:"user_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r *ninVerificationRow) toEntity() (*entity.NinVerification, error) {
	detail := entity.IdentityDetail{}
	if len(r.Detail) > 0 {
		if err := json.Unmarshal(r.Detail, &detail); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждены данные KYC")
		}
	}
	return &entity.NinVerification{
		ID:          r.ID,
		NIN:         valueobject.NIN(r.NIN),
		Detail:      detail,
		PhoneNumber: r.PhoneNumber,
		Token:       r.Token,
		IsVerified:  r.IsVerified,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
