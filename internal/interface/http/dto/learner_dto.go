package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fme-backend/internal/usecase/learner"
)

// CreateLearnerRequest принимается как multipart/form-data или JSON.
type CreateLearnerRequest struct {
	FirstName            string `json:"first_name" form:"first_name" binding:"required"`
	LastName             string `json:"last_name" form:"last_name" binding:"required"`
	Email                string `json:"email" form:"email" binding:"required"`
	PhoneNumber          string `json:"phone_number" form:"phone_number" binding:"required"`
	AccountType          string `json:"account_type" form:"account_type" binding:"required"`
	LearningTrack        string `json:"learning_track" form:"learning_track" binding:"required"`
	SkillCluster         string `json:"skill_cluster" form:"skill_cluster" binding:"required"`
	WorkType             string `json:"work_type" form:"work_type" binding:"required"`
	IndustrialPreference string `json:"industrial_preference" form:"industrial_preference"`
	PortfolioLink        string `json:"portfolio_link" form:"portfolio_link"`
	State                string `json:"state" form:"state" binding:"required"`
	Gender               string `json:"gender" form:"gender" binding:"required"`
}

func (r CreateLearnerRequest) ToInput(verificationID uuid.UUID) learner.CreateLearnerInput {
	return learner.CreateLearnerInput{
		VerificationID:       verificationID,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		Email:                r.Email,
		PhoneNumber:          r.PhoneNumber,
		AccountType:          r.AccountType,
		LearningTrack:        r.LearningTrack,
		SkillCluster:         r.SkillCluster,
		WorkType:             r.WorkType,
		IndustrialPreference: r.IndustrialPreference,
		PortfolioLink:        r.PortfolioLink,
		State:                r.State,
		Gender:               r.Gender,
	}
}

type LearnerUserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type LearnerProfileResponse struct {
	ID                   uuid.UUID `json:"id"`
	AccountType          string    `json:"account_type"`
	LearningTrack        string    `json:"learning_track"`
	SkillCluster         string    `json:"skill_cluster"`
	WorkType             string    `json:"work_type"`
	IndustrialPreference string    `json:"industrial_preference"`
	PortfolioLink        string    `json:"portfolio_link"`
	State                string    `json:"state"`
	Gender               string    `json:"gender"`
	Resume               *string   `json:"resume"`
	Progress             int       `json:"progress"`
}

type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type CreateLearnerResponse struct {
	User    LearnerUserResponse    `json:"user"`
	Profile LearnerProfileResponse `json:"profile"`
	Tokens  TokensResponse         `json:"tokens"`
	Message string                 `json:"message"`
}

func ToCreateLearnerResponse(res *learner.CreateLearnerResult) CreateLearnerResponse {
	u, p := res.User, res.Profile
	return CreateLearnerResponse{
		User: LearnerUserResponse{
			ID:          u.ID,
			Email:       u.Email,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			PhoneNumber: u.PhoneNumber,
			Role:        string(u.Role),
			Status:      string(u.Status),
			CreatedAt:   u.CreatedAt,
		},
		Profile: LearnerProfileResponse{
			ID:                   p.ID,
			AccountType:          string(p.AccountType),
			LearningTrack:        p.LearningTrack,
			SkillCluster:         p.SkillCluster,
			WorkType:             string(p.WorkType),
			IndustrialPreference: p.IndustrialPreference,
			PortfolioLink:        p.PortfolioLink,
			State:                p.State,
			Gender:               string(p.Gender),
			Resume:               p.ResumeURL,
			Progress:             p.Progress,
		},
		Tokens: TokensResponse{
			AccessToken:  res.Tokens.AccessToken,
			RefreshToken: res.Tokens.RefreshToken,
			ExpiresIn:    int64(res.Tokens.ExpiresIn.Seconds()),
		},
		Message: Message(MessageLearnerCreated),
	}
}
