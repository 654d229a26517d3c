package handler

import (
	"net/http"

	"github.com/campus-events-api/internal/application/clubaccess"
	"github.com/campus-events-api/internal/pkg/validate"
)

// ClubAccessHandler issues and redeems organizer access codes.
type ClubAccessHandler struct {
	svc clubaccess.Service
}

func NewClubAccessHandler(svc clubaccess.Service) *ClubAccessHandler {
	return &ClubAccessHandler{svc: svc}
}

func (h *ClubAccessHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req clubaccess.SendOTPRequest
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.SendOTP(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	msg := "OTP sent to email"
	if !res.EmailSent {
		msg = "OTP generated (email not configured)"
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Message: msg})
}

func (h *ClubAccessHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req clubaccess.VerifyRequest
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.svc.Verify(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Message: "Access code verified"})
}
