package handler

import (
	"net/http"
	"strconv"

	"github.com/campus-events-api/internal/application/club"
	"github.com/campus-events-api/internal/domain"
	"github.com/campus-events-api/internal/pkg/validate"
	"github.com/campus-events-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ClubHandler handles club CRUD endpoints.
type ClubHandler struct {
	svc club.Service
}

func NewClubHandler(svc club.Service) *ClubHandler { return &ClubHandler{svc: svc} }

func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.svc.List(r.Context(), parseLimit(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateClubRequest
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ClubHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateClubRequest
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// parseLimit reads ?limit=; services clamp zero and oversized values.
func parseLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}
