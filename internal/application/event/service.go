package event

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

type eventStore interface {
	Put(ctx context.Context, e *domain.Event) error
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Event, error)
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, eventID string) error
}

type clubStore interface {
	Get(ctx context.Context, clubID string) (*domain.Club, error)
}

type Service interface {
	Create(ctx context.Context, callerID, clubID string, req domain.CreateEventRequest) (*domain.Event, error)
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Event, error)
	ListUpcoming(ctx context.Context, limit int) ([]domain.Event, error)
	Update(ctx context.Context, callerID, eventID string, req domain.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, callerID, eventID string) error
}

type ServiceDeps struct {
	EventRepo eventStore
	ClubRepo  clubStore
	Now       func() time.Time
}

type service struct {
	events eventStore
	clubs  clubStore
	now    func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{events: deps.EventRepo, clubs: deps.ClubRepo, now: now}
}

func (s *service) Create(ctx context.Context, callerID, clubID string, req domain.CreateEventRequest) (*domain.Event, error) {
	if err := s.requireOwner(ctx, callerID, clubID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("event title is required: %w", domain.ErrBadRequest)
	}
	if err := checkWindow(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	e := &domain.Event{
		EventID:     id.NewAt(now),
		ClubID:      clubID,
		Title:       title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt.UTC(),
		ImageURL:    req.ImageURL,
		CreatedBy:   callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.events.Get(ctx, eventID)
}

func (s *service) ListByClub(ctx context.Context, clubID string) ([]domain.Event, error) {
	if _, err := s.clubs.Get(ctx, clubID); err != nil {
		return nil, err
	}
	return s.events.ListByClub(ctx, clubID)
}

func (s *service) ListUpcoming(ctx context.Context, limit int) ([]domain.Event, error) {
	switch {
	case limit < 1:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	return s.events.ListUpcoming(ctx, s.now().UTC(), limit)
}

func (s *service) Update(ctx context.Context, callerID, eventID string, req domain.UpdateEventRequest) (*domain.Event, error) {
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, callerID, e.ClubID); err != nil {
		return nil, err
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("event title cannot be empty: %w", domain.ErrBadRequest)
		}
		e.Title = title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.ImageURL != nil {
		e.ImageURL = *req.ImageURL
	}
	if req.StartsAt != nil {
		e.StartsAt = req.StartsAt.UTC()
	}
	if req.EndsAt != nil {
		e.EndsAt = req.EndsAt.UTC()
	}
	if err := checkWindow(e.StartsAt, e.EndsAt); err != nil {
		return nil, err
	}
	e.UpdatedAt = s.now().UTC()
	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, callerID, eventID string) error {
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, callerID, e.ClubID); err != nil {
		return err
	}
	return s.events.Delete(ctx, eventID)
}

func (s *service) requireOwner(ctx context.Context, callerID, clubID string) error {
	if callerID == "" {
		return fmt.Errorf("sign in to manage events: %w", domain.ErrUnauthorized)
	}
	c, err := s.clubs.Get(ctx, clubID)
	if err != nil {
		return err
	}
	if c.OwnerID != callerID {
		return fmt.Errorf("only the club owner can manage its events: %w", domain.ErrForbidden)
	}
	return nil
}

func checkWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("startsAt and endsAt are required: %w", domain.ErrBadRequest)
	}
	if end.Before(start) {
		return fmt.Errorf("endsAt must not be before startsAt: %w", domain.ErrBadRequest)
	}
	return nil
}
