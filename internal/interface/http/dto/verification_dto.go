package dto

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/fme-backend/internal/domain/entity"
)

type InitiateVerificationRequest struct {
	NIN string `json:"nin" form:"nin" binding:"required"`
}

type FinalizeVerificationRequest struct {
	VerificationID string `json:"verification_id" form:"verification_id" binding:"required"`
	Token          string `json:"token" form:"token" binding:"required"`
}

type ResendTokenRequest struct {
	VerificationID string `json:"verification_id" form:"verification_id" binding:"required"`
}

type VerificationResponse struct {
	VerificationID uuid.UUID `json:"verification_id"`
	Message        string    `json:"message"`
}

type FinalizeVerificationResponse struct {
	VerificationID uuid.UUID             `json:"verification_id"`
	NINDetail      entity.IdentityDetail `json:"nin_detail"`
	Message        string                `json:"message"`
}

func ToInitiateResponse(id uuid.UUID) VerificationResponse {
	return VerificationResponse{
		VerificationID: id,
		Message:        Message(MessageVerificationStarted),
	}
}

func ToFinalizeResponse(record *entity.NinVerification) FinalizeVerificationResponse {
	return FinalizeVerificationResponse{
		VerificationID: record.ID,
		NINDetail:      record.RedactedDetail(),
		Message:        Message(MessageVerificationCompleted),
	}
}

func ToResendResponse(id uuid.UUID) VerificationResponse {
	return VerificationResponse{
		VerificationID: id,
		Message:        Message(MessageTokenResent),
	}
}
