package learner

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
	"github.com/ignatzorin/fme-backend/internal/domain/repository"
	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fme-backend/internal/logger"
	"github.com/ignatzorin/fme-backend/internal/metrics"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fme-backend/internal/service"
	"github.com/ignatzorin/fme-backend/internal/storage"
	"github.com/ignatzorin/fme-backend/internal/usecase/verification"
	"github.com/ignatzorin/fme-backend/internal/validation"
)

const (
	EventLearnerCreated = "learner.created"
	resumeFolder        = "resume"
)

// FileStore сохраняет загруженные файлы.
type FileStore interface {
	Save(ctx context.Context, folder, originalName string, r io.Reader) (string, int64, error)
	URL(relativePath string) string
	Delete(ctx context.Context, relativePath string) error
}

// TokenIssuer выпускает пару токенов для нового аккаунта.
type TokenIssuer interface {
	GeneratePair(userID uuid.UUID, role string) (*service.TokenPair, time.Time, time.Time, error)
}

// Resume содержит файл резюме. Тип уже проверен на уровне HTTP.
type Resume struct {
	Name    string
	Content io.Reader
}

type CreateLearnerInput struct {
	VerificationID uuid.UUID

	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string

	AccountType          string
	LearningTrack        string
	SkillCluster         string
	WorkType             string
	IndustrialPreference string
	PortfolioLink        string
	State                string
	Gender               string

	Resume *Resume

	UserAgent string
	IPAddress string
}

type CreateLearnerResult struct {
	User    *entity.User
	Profile *entity.LearnerProfile
	Tokens  *service.TokenPair
}

// CreateLearnerUseCase создаёт аккаунт учащегося по подтверждённой записи NIN.
type CreateLearnerUseCase struct {
	uow     repository.UnitOfWork
	link    *verification.LinkAccountUseCase
	files   FileStore
	tokens  TokenIssuer
	events  verification.EventPublisher
	metrics *metrics.Metrics
}

func NewCreateLearnerUseCase(
	uow repository.UnitOfWork,
	link *verification.LinkAccountUseCase,
	files FileStore,
	tokens TokenIssuer,
) *CreateLearnerUseCase {
	return &CreateLearnerUseCase{
		uow:    uow,
		link:   link,
		files:  files,
		tokens: tokens,
	}
}

func (uc *CreateLearnerUseCase) SetEvents(events verification.EventPublisher) {
	uc.events = events
}

func (uc *CreateLearnerUseCase) SetMetrics(m *metrics.Metrics) {
	uc.metrics = m
}

// Execute проверяет запись, сохраняет резюме и в одной транзакции создаёт
// пользователя, профиль, сессию и привязку к записи верификации.
func (uc *CreateLearnerUseCase) Execute(ctx context.Context, in CreateLearnerInput) (*CreateLearnerResult, error) {
	if _, err := uc.link.EnsureLinkable(ctx, in.VerificationID); err != nil {
		return nil, err
	}

	user, profile, err := buildLearner(in)
	if err != nil {
		return nil, err
	}

	var resumePath string
	if in.Resume != nil {
		rel, _, err := uc.files.Save(ctx, resumeFolder, in.Resume.Name, in.Resume.Content)
		if err != nil {
			if errors.Is(err, storage.ErrTooLarge) {
				return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "resume file is too large")
			}
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить резюме")
		}
		resumePath = rel
		url := uc.files.URL(rel)
		profile.ResumeURL = &url
	}

	tokens, _, refreshExp, err := uc.tokens.GeneratePair(user.ID, string(user.Role))
	if err != nil {
		uc.discardResume(resumePath)
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}

	session := &entity.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    refreshExp,
		CreatedAt:    time.Now(),
	}
	if in.UserAgent != "" {
		session.UserAgent = &in.UserAgent
	}
	if in.IPAddress != "" {
		session.IPAddress = &in.IPAddress
	}

	err = uc.uow.Do(ctx, func(tx repository.OnboardingTx) error {
		if err := tx.Learners().CreateUser(ctx, user); err != nil {
			return err
		}
		if err := tx.Learners().CreateProfile(ctx, profile); err != nil {
			return err
		}
		if err := tx.Learners().CreateSession(ctx, session); err != nil {
			return err
		}
		return uc.link.Execute(ctx, tx.Verifications(), in.VerificationID, user.ID)
	})
	if err != nil {
		uc.discardResume(resumePath)
		return nil, err
	}

	uc.metrics.IncLearnerCreated()
	if uc.events != nil {
		uc.events.Publish(EventLearnerCreated, map[string]any{
			"user_id":         user.ID,
			"verification_id": in.VerificationID,
			"first_name":      user.FirstName,
			"last_name":       user.LastName,
			"state":           profile.State,
		})
	}

	return &CreateLearnerResult{User: user, Profile: profile, Tokens: tokens}, nil
}

// discardResume удаляет резюме, если аккаунт так и не был создан.
func (uc *CreateLearnerUseCase) discardResume(relativePath string) {
	if relativePath == "" {
		return
	}
	if err := uc.files.Delete(context.Background(), relativePath); err != nil && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"path":  relativePath,
			"error": err.Error(),
		}).Warn("learner: не удалось удалить резюме после отката")
	}
}

func buildLearner(in CreateLearnerInput) (*entity.User, *entity.LearnerProfile, error) {
	checks := []error{
		validation.ValidatePersonName("first_name", in.FirstName),
		validation.ValidatePersonName("last_name", in.LastName),
		validation.ValidateEmail(in.Email),
		validation.ValidatePhoneNumber(in.PhoneNumber),
		validation.ValidateNonEmpty("learning_track", in.LearningTrack),
		validation.ValidateLength("learning_track", in.LearningTrack, 0, validation.MaxTrackLength),
		validation.ValidateNonEmpty("skill_cluster", in.SkillCluster),
		validation.ValidateLength("skill_cluster", in.SkillCluster, 0, validation.MaxTrackLength),
		validation.ValidateLength("industrial_preference", in.IndustrialPreference, 0, validation.MaxPreferenceLength),
		validation.ValidateExternalLink("portfolio_link", in.PortfolioLink),
	}
	for _, err := range checks {
		if err != nil {
			return nil, nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	accountType, err := valueobject.NewAccountType(strings.ToUpper(strings.TrimSpace(in.AccountType)))
	if err != nil {
		return nil, nil, err
	}
	workType, err := valueobject.NewWorkType(strings.ToUpper(strings.TrimSpace(in.WorkType)))
	if err != nil {
		return nil, nil, err
	}
	gender, err := valueobject.NewGender(strings.ToUpper(strings.TrimSpace(in.Gender)))
	if err != nil {
		return nil, nil, err
	}
	state := strings.TrimSpace(in.State)
	if err := valueobject.ValidateState(state); err != nil {
		return nil, nil, err
	}

	user := entity.NewLearner(in.Email, in.FirstName, in.LastName, strings.TrimSpace(in.PhoneNumber))
	profile := &entity.LearnerProfile{
		ID:                   uuid.New(),
		UserID:               user.ID,
		AccountType:          accountType,
		LearningTrack:        strings.TrimSpace(in.LearningTrack),
		SkillCluster:         strings.TrimSpace(in.SkillCluster),
		WorkType:             workType,
		IndustrialPreference: strings.TrimSpace(in.IndustrialPreference),
		PortfolioLink:        strings.TrimSpace(in.PortfolioLink),
		State:                state,
		Gender:               gender,
		CreatedAt:            user.CreatedAt,
		UpdatedAt:            user.CreatedAt,
	}
	return user, profile, nil
}
