package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campus-events-api/internal/domain"
)

// ErrProviderDisabled is returned when a sign-in method has no credentials.
var ErrProviderDisabled = errors.New("sign-in provider is not configured")

// codeExchanger turns an OAuth authorization code into the signed-in identity.
type codeExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}

type idTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.Identity, error)
}

type userSyncer interface {
	Sync(ctx context.Context, ident domain.Identity) (*domain.User, error)
}

type tokenSigner interface {
	Sign(userID, email string) (string, error)
}

// Result is a freshly issued session.
type Result struct {
	Token string
	User  *domain.User
}

type Service interface {
	AuthorizeURL(state string) (string, error)
	Callback(ctx context.Context, code string) (*Result, error)
	GoogleSignIn(ctx context.Context, idToken string) (*Result, error)
}

// ServiceDeps wires the auth gateway. OAuth and Google may be nil when the
// corresponding provider is not configured.
type ServiceDeps struct {
	OAuth  codeExchanger
	Google idTokenVerifier
	Users  userSyncer
	Tokens tokenSigner
}

type service struct {
	oauth  codeExchanger
	google idTokenVerifier
	users  userSyncer
	tokens tokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{oauth: deps.OAuth, google: deps.Google, users: deps.Users, tokens: deps.Tokens}
}

func (s *service) AuthorizeURL(state string) (string, error) {
	if s.oauth == nil {
		return "", ErrProviderDisabled
	}
	return s.oauth.AuthCodeURL(state), nil
}

func (s *service) Callback(ctx context.Context, code string) (*Result, error) {
	if s.oauth == nil {
		return nil, ErrProviderDisabled
	}
	if code == "" {
		return nil, fmt.Errorf("missing authorization code: %w", domain.ErrBadRequest)
	}
	ident, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return s.issue(ctx, *ident)
}

func (s *service) GoogleSignIn(ctx context.Context, idToken string) (*Result, error) {
	if s.google == nil {
		return nil, ErrProviderDisabled
	}
	ident, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, *ident)
}

func (s *service) issue(ctx context.Context, ident domain.Identity) (*Result, error) {
	if s.tokens == nil {
		return nil, errors.New("session signing keys are not configured")
	}
	u, err := s.users.Sync(ctx, ident)
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.Sign(u.UserID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	slog.Info("session issued", "user_id", u.UserID, "provider", ident.Provider)
	return &Result{Token: tok, User: u}, nil
}
