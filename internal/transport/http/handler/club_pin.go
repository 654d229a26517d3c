package handler

import (
	"errors"
	"net/http"

	"github.com/campus-events-api/internal/application/clubpin"
	"github.com/campus-events-api/internal/domain"
	"github.com/campus-events-api/internal/pkg/validate"
)

// ClubPinHandler serves club signup and PIN confirmation.
type ClubPinHandler struct {
	svc clubpin.Service
	// exposeDebug adds the issued-PIN listing to verification misses.
	exposeDebug bool
}

func NewClubPinHandler(svc clubpin.Service, exposeDebug bool) *ClubPinHandler {
	return &ClubPinHandler{svc: svc, exposeDebug: exposeDebug}
}

type signupResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	PendingClub *domain.PendingClub `json:"pendingClub"`
}

type verifyClubResponse struct {
	Success     bool                `json:"success"`
	PendingClub *domain.PendingClub `json:"pendingClub,omitempty"`
	Error       string              `json:"error,omitempty"`
	Debug       *clubpin.PinDebug   `json:"debug,omitempty"`
}

func (h *ClubPinHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req clubpin.SignupRequest
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	msg := "PIN sent to the club's official email"
	if !res.EmailSent {
		msg = "PIN generated (email not configured)"
	}
	pending := *res.Pending
	if res.EmailSent || !h.exposeDebug {
		pending.Pin = ""
	}
	writeJSON(w, http.StatusCreated, signupResponse{Success: true, Message: msg, PendingClub: &pending})
}

func (h *ClubPinHandler) SendPin(w http.ResponseWriter, r *http.Request) {
	var req clubpin.SendPinRequest
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ResultEnvelope{Error: err.Error()})
		return
	}
	sent, err := h.svc.SendPin(r.Context(), req)
	if err != nil {
		writeJSON(w, statusFor(err), ResultEnvelope{Error: publicMessage(err)})
		return
	}
	msg := "PIN sent"
	if !sent {
		msg = "PIN generated (email not configured)"
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Message: msg})
}

func (h *ClubPinHandler) VerifyClub(w http.ResponseWriter, r *http.Request) {
	var req clubpin.VerifyRequest
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.Verify(r.Context(), req)
	if err != nil {
		resp := verifyClubResponse{Error: publicMessage(err)}
		var nf *clubpin.PinNotFoundError
		if errors.As(err, &nf) && h.exposeDebug {
			resp.Debug = &nf.Debug
		}
		writeJSON(w, statusFor(err), resp)
		return
	}
	writeJSON(w, http.StatusOK, verifyClubResponse{Success: true, PendingClub: p})
}
