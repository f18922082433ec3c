package handler

import (
	"errors"
	"net/http"

	"github.com/intellia-hq/mailroom/pkg/otp"
)

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// sendOTP issues a fresh passcode and emails it. Re-issuing for the same
// address overwrites any outstanding code.
func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Email == "" {
		h.respondError(w, r, badRequest("Email is required"))
		return
	}

	if err := h.otp.Issue(r.Context(), req.Email); err != nil {
		h.respondError(w, r, internalError("Failed to send OTP", err, ""))
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "OTP sent successfully"})
}

// verifyOTP checks a submitted code. All rejection reasons render as a 400
// with success=false; the message distinguishes them for the caller.
func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Email == "" || req.OTP == "" {
		h.respondError(w, r, badRequest("Email and OTP are required"))
		return
	}

	err := h.otp.Verify(r.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "OTP verified successfully"})
	case errors.Is(err, otp.ErrNotFound):
		respondJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: "No OTP found for this email, please request a new one"})
	case errors.Is(err, otp.ErrExpired):
		respondJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: "OTP has expired, please request a new one"})
	case errors.Is(err, otp.ErrMismatch):
		respondJSON(w, http.StatusBadRequest, messageResponse{Success: false, Message: "Invalid OTP, please try again"})
	default:
		h.respondError(w, r, internalError("Failed to verify OTP", err, ""))
	}
}
