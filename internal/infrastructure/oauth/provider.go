package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campus-events-api/internal/config"
	"github.com/campus-events-api/internal/domain"
	"golang.org/x/oauth2"
)

// Provider runs the authorization-code flow against the hosted auth provider
// and resolves the signed-in identity from its userinfo endpoint.
type Provider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	timeout     time.Duration
}

// NewProvider returns nil when cfg does not carry enough of the OAuth settings.
func NewProvider(cfg config.OAuth) *Provider {
	if !cfg.Enabled() {
		return nil
	}
	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL},
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
		timeout:     10 * time.Second,
	}
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades code for a token and fetches the user's profile with it.
func (p *Provider) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tok, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", domain.ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.oauthConfig.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return info.identity()
}

// userInfo accepts both OIDC claim names and the hosted provider's own
// user shape (id + user_metadata).
type userInfo struct {
	Sub          string `json:"sub"`
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	UserMetadata struct {
		FullName  string `json:"full_name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

func (u userInfo) identity() (*domain.Identity, error) {
	subject := firstNonEmpty(u.Sub, u.ID)
	email := strings.TrimSpace(u.Email)
	if subject == "" || email == "" {
		return nil, errors.New("userinfo is missing subject or email")
	}
	return &domain.Identity{
		Subject:   subject,
		Email:     email,
		FullName:  firstNonEmpty(u.Name, u.UserMetadata.FullName),
		AvatarURL: firstNonEmpty(u.Picture, u.UserMetadata.AvatarURL),
		Provider:  "oauth",
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
