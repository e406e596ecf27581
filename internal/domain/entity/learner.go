package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
)

type User struct {
	ID          uuid.UUID
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        valueobject.UserRole
	Status      valueobject.UserStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewLearner создаёт активного пользователя с ролью LEARNER.
func NewLearner(email, firstName, lastName, phoneNumber string) *User {
	now := time.Now()
	return &User{
		ID:          uuid.New(),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		FirstName:   strings.TrimSpace(firstName),
		LastName:    strings.TrimSpace(lastName),
		PhoneNumber: phoneNumber,
		Role:        valueobject.UserRoleLearner,
		Status:      valueobject.UserStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type LearnerProfile struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	AccountType          valueobject.AccountType
	LearningTrack        string
	SkillCluster         string
	WorkType             valueobject.WorkType
	IndustrialPreference string
	PortfolioLink        string
	State                string
	Gender               valueobject.Gender
	ResumeURL            *string
	Progress             int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Session хранит refresh-сессию, выпущенную при создании аккаунта.
type Session struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	RefreshToken string
	UserAgent    *string
	IPAddress    *string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}
