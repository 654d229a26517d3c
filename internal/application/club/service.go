package club

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campus-events-api/internal/domain"
	"github.com/campus-events-api/internal/pkg/id"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type clubStore interface {
	Put(ctx context.Context, c *domain.Club) error
	Get(ctx context.Context, clubID string) (*domain.Club, error)
	List(ctx context.Context, limit int) ([]domain.Club, error)
	Update(ctx context.Context, c *domain.Club) error
}

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateClubRequest) (*domain.Club, error)
	Get(ctx context.Context, clubID string) (*domain.Club, error)
	List(ctx context.Context, limit int) ([]domain.Club, error)
	Update(ctx context.Context, callerID, clubID string, req domain.UpdateClubRequest) (*domain.Club, error)
}

type ServiceDeps struct {
	ClubRepo clubStore
}

type service struct {
	repo clubStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.ClubRepo}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateClubRequest) (*domain.Club, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("sign in to create a club: %w", domain.ErrUnauthorized)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("club name is required: %w", domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	c := &domain.Club{
		ClubID:        id.NewAt(now),
		Name:          name,
		Description:   req.Description,
		OfficialEmail: strings.ToLower(strings.TrimSpace(req.OfficialEmail)),
		LogoURL:       req.LogoURL,
		OwnerID:       ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, clubID string) (*domain.Club, error) {
	return s.repo.Get(ctx, clubID)
}

func (s *service) List(ctx context.Context, limit int) ([]domain.Club, error) {
	return s.repo.List(ctx, clampLimit(limit))
}

func (s *service) Update(ctx context.Context, callerID, clubID string, req domain.UpdateClubRequest) (*domain.Club, error) {
	c, err := s.repo.Get(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != callerID {
		return nil, fmt.Errorf("only the club owner can edit it: %w", domain.ErrForbidden)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("club name cannot be empty: %w", domain.ErrBadRequest)
		}
		c.Name = name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.OfficialEmail != nil {
		c.OfficialEmail = strings.ToLower(strings.TrimSpace(*req.OfficialEmail))
	}
	if req.LogoURL != nil {
		c.LogoURL = *req.LogoURL
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}
