package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fme-backend/internal/interface/http/dto"
	"github.com/ignatzorin/fme-backend/internal/interface/http/response"
	"github.com/ignatzorin/fme-backend/internal/usecase/verification"
)

type VerificationHandler struct {
	initiateUC *verification.InitiateVerificationUseCase
	finalizeUC *verification.FinalizeVerificationUseCase
	resendUC   *verification.ResendTokenUseCase
}

func NewVerificationHandler(
	initiateUC *verification.InitiateVerificationUseCase,
	finalizeUC *verification.FinalizeVerificationUseCase,
	resendUC *verification.ResendTokenUseCase,
) *VerificationHandler {
	return &VerificationHandler{
		initiateUC: initiateUC,
		finalizeUC: finalizeUC,
		resendUC:   resendUC,
	}
}

// VerifyNIN обрабатывает POST /api/verify_nin.
func (h *VerificationHandler) VerifyNIN(c *gin.Context) {
	var req dto.InitiateVerificationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "nin is required")
		return
	}

	res, err := h.initiateUC.Execute(c.Request.Context(), req.NIN)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToInitiateResponse(res.VerificationID))
}

// FinalizeNINVerification обрабатывает POST /api/finalize_nin_verification.
func (h *VerificationHandler) FinalizeNINVerification(c *gin.Context) {
	var req dto.FinalizeVerificationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "verification_id and token are required")
		return
	}

	id, ok := parseVerificationID(c, req.VerificationID)
	if !ok {
		return
	}

	record, err := h.finalizeUC.Execute(c.Request.Context(), id, req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToFinalizeResponse(record))
}

// ResendToken обрабатывает POST /api/nin_verification_token_resend.
func (h *VerificationHandler) ResendToken(c *gin.Context) {
	var req dto.ResendTokenRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "verification_id is required")
		return
	}

	id, ok := parseVerificationID(c, req.VerificationID)
	if !ok {
		return
	}

	if err := h.resendUC.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToResendResponse(id))
}
