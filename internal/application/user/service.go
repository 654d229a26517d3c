package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campus-events-api/internal/domain"
)

type userStore interface {
	// Upsert inserts u or, when u.UserID already exists, refreshes its
	// profile fields while keeping the original created_at. It returns the
	// stored row.
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type Service interface {
	Sync(ctx context.Context, ident domain.Identity) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type ServiceDeps struct {
	UserRepo userStore
	Now      func() time.Time
}

type service struct {
	repo userStore
	now  func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.UserRepo, now: now}
}

// Sync mirrors ident into the users table. Calling it any number of times
// with the same subject yields one row.
func (s *service) Sync(ctx context.Context, ident domain.Identity) (*domain.User, error) {
	if ident.Subject == "" || ident.Email == "" {
		return nil, fmt.Errorf("identity is missing subject or email: %w", domain.ErrBadRequest)
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       ident.Subject,
		Email:        strings.ToLower(strings.TrimSpace(ident.Email)),
		FullName:     strings.TrimSpace(ident.FullName),
		AvatarURL:    ident.AvatarURL,
		Provider:     ident.Provider,
		LastSignInAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.FullName == "" {
		u.FullName = strings.SplitN(u.Email, "@", 2)[0]
	}
	stored, err := s.repo.Upsert(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}
	return stored, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}
