package http

import (
	"context"
	"time"

	"github.com/campus-events-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// ClubRepository is the minimal interface the router requires from a club store.
type ClubRepository interface {
	Put(ctx context.Context, c *domain.Club) error
	Get(ctx context.Context, clubID string) (*domain.Club, error)
	List(ctx context.Context, limit int) ([]domain.Club, error)
	Update(ctx context.Context, c *domain.Club) error
}

// EventRepository is the minimal interface the router requires from an event store.
type EventRepository interface {
	Put(ctx context.Context, e *domain.Event) error
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Event, error)
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, eventID string) error
}

// PendingClubRepository is the minimal interface the router requires from a pending-club store.
type PendingClubRepository interface {
	Create(ctx context.Context, p *domain.PendingClub) error
	FindByEmailAndPin(ctx context.Context, email, pin string) (*domain.PendingClub, error)
	ListByEmail(ctx context.Context, email string) ([]domain.PendingClub, error)
}

// OTPRepository is the minimal interface the router requires from a club access code store.
type OTPRepository interface {
	Create(ctx context.Context, o *domain.ClubAccessOTP) error
	FindPending(ctx context.Context, clubID, code string) (*domain.ClubAccessOTP, error)
	MarkUsed(ctx context.Context, otpID string, usedAt time.Time) error
	MarkExpired(ctx context.Context, otpID string) error
}

// OAuthProvider runs the authorization-code flow.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}

// IDTokenVerifier verifies third-party ID tokens.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.Identity, error)
}

// Stores groups the repositories of one storage backend.
type Stores struct {
	Users        UserRepository
	Clubs        ClubRepository
	Events       EventRepository
	PendingClubs PendingClubRepository
	OTPs         OTPRepository
}
