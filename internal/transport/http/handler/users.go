package handler

import (
	"net/http"

	"github.com/campus-events-api/internal/application/user"
	"github.com/campus-events-api/internal/domain"
	"github.com/campus-events-api/internal/pkg/validate"
	"github.com/campus-events-api/internal/transport/http/middleware"
)

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.svc.Get(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Sync mirrors the caller's provider profile. A session may only sync itself.
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var ident domain.Identity
	if err := validate.DecodeJSON(r.Body, &ident); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ident.Subject != claims.UserID {
		writeError(w, http.StatusForbidden, "cannot sync another user")
		return
	}
	u, err := h.svc.Sync(r.Context(), ident)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
