package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/campus-events-api/internal/application/session"
	"github.com/campus-events-api/internal/domain"
	"github.com/campus-events-api/internal/pkg/token"
	"github.com/campus-events-api/internal/pkg/validate"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler runs the sign-in flows and manages the session cookie.
type AuthHandler struct {
	svc     session.Service
	cookie  CookieConfig
	baseURL string
}

func NewAuthHandler(svc session.Service, cookie CookieConfig, baseURL string) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie, baseURL: strings.TrimRight(baseURL, "/")}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Authorize redirects to the provider's consent page.
func (h *AuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	state, err := token.Suffix(32)
	if err != nil {
		httpError(w, err)
		return
	}
	target, err := h.svc.AuthorizeURL(state)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback finishes the authorization-code flow and lands the browser on the
// dashboard, or on the login page with an error code.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.clearCookie(w, stateCookieName, "/auth")

	if providerErr := q.Get("error"); providerErr != "" {
		slog.Warn("oauth provider returned an error", "error", providerErr, "description", q.Get("error_description"))
		h.redirectLogin(w, r, providerErr)
		return
	}
	if c, err := r.Cookie(stateCookieName); err != nil || c.Value == "" || c.Value != q.Get("state") {
		h.redirectLogin(w, r, "invalid_state")
		return
	}

	res, err := h.svc.Callback(r.Context(), q.Get("code"))
	if err != nil {
		slog.Warn("oauth callback failed", "err", err)
		h.redirectLogin(w, r, "auth_failed")
		return
	}
	h.setSession(w, res.Token)
	http.Redirect(w, r, h.baseURL+"/dashboard", http.StatusFound)
}

func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken" validate:"required"`
	}
	if err := validate.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.GoogleSignIn(r.Context(), req.IDToken)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.setSession(w, res.Token)
	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearCookie(w, h.cookie.Name, "/")
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrProviderDisabled) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	httpError(w, err)
}

func (h *AuthHandler) setSession(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) redirectLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.baseURL+"/auth/login?error="+url.QueryEscape(code), http.StatusFound)
}
