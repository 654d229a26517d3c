package google

import (
	"context"
	"fmt"

	"github.com/campus-events-api/internal/domain"
	"google.golang.org/api/idtoken"
)

// validateFunc matches idtoken.Validate.
type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Verifier verifies Google ID tokens against a specific client ID.
type Verifier struct {
	clientID string
	validate validateFunc
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates the Google ID token and returns the signed-in identity.
// Returns a domain.ErrUnauthorized-wrapped error if the token is invalid or
// the email is unverified.
func (v *Verifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	p, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized)
	}
	email, _ := p.Claims["email"].(string)
	emailVerified, _ := p.Claims["email_verified"].(bool)
	if email == "" || !emailVerified {
		return nil, fmt.Errorf("google email not verified: %w", domain.ErrUnauthorized)
	}
	name, _ := p.Claims["name"].(string)
	picture, _ := p.Claims["picture"].(string)
	return &domain.Identity{
		Subject:   p.Subject,
		Email:     email,
		FullName:  name,
		AvatarURL: picture,
		Provider:  "google",
	}, nil
}
