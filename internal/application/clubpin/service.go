package clubpin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/campus-events-api/internal/domain"
	"github.com/campus-events-api/internal/infrastructure/mail"
	"github.com/campus-events-api/internal/pkg/id"
	"github.com/campus-events-api/internal/pkg/token"
)

const pinDigits = 8

var ErrPinExpired = fmt.Errorf("PIN has expired, register the club again: %w", domain.ErrExpired)

// PendingClubStore persists club registrations awaiting PIN confirmation.
type PendingClubStore interface {
	Create(ctx context.Context, p *domain.PendingClub) error
	FindByEmailAndPin(ctx context.Context, email, pin string) (*domain.PendingClub, error)
	ListByEmail(ctx context.Context, email string) ([]domain.PendingClub, error)
}

type SignupRequest struct {
	UserID   string `json:"userId" validate:"required"`
	ClubName string `json:"clubName" validate:"required,singleline,max=120"`
	Email    string `json:"email" validate:"required,email"`
}

type SendPinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	ClubName string `json:"clubName" validate:"required,singleline,max=120"`
	Pin      string `json:"pin" validate:"required,numeric,len=8"`
}

type VerifyRequest struct {
	ClubEmail string `json:"clubEmail" validate:"required,email"`
	Pin       string `json:"pin" validate:"required"`
	UserID    string `json:"userId"`
}

type SignupResult struct {
	Pending   *domain.PendingClub
	EmailSent bool
}

// IssuedPin is one row of the debug listing returned on a PIN miss.
type IssuedPin struct {
	Pin       string    `json:"pin"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// PinDebug lists every PIN issued to the submitted email.
type PinDebug struct {
	Email      string      `json:"email"`
	IssuedPins []IssuedPin `json:"issuedPins"`
}

// PinNotFoundError is returned when no pending club matches the email and
// PIN. It unwraps to domain.ErrNotFound.
type PinNotFoundError struct {
	Debug PinDebug
}

func (e *PinNotFoundError) Error() string { return "no pending club matches this email and PIN" }
func (e *PinNotFoundError) Unwrap() error { return domain.ErrNotFound }

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)
	SendPin(ctx context.Context, req SendPinRequest) (sent bool, err error)
	Verify(ctx context.Context, req VerifyRequest) (*domain.PendingClub, error)
}

// ServiceDeps wires the club PIN service. Mailer may be nil.
type ServiceDeps struct {
	PendingClubRepo PendingClubStore
	Mailer          mail.Mailer
	Now             func() time.Time
}

type service struct {
	repo   PendingClubStore
	mailer mail.Mailer
	now    func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.PendingClubRepo, mailer: deps.Mailer, now: now}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.ClubName == "" || req.UserID == "" {
		return nil, fmt.Errorf("userId, clubName and email are required: %w", domain.ErrBadRequest)
	}
	pin, err := token.Digits(pinDigits)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &domain.PendingClub{
		PendingClubID: id.NewAt(now),
		UserID:        req.UserID,
		ClubName:      strings.TrimSpace(req.ClubName),
		OfficialEmail: email,
		Pin:           pin,
		Status:        domain.PendingClubStatusPending,
		ExpiresAt:     now.Add(domain.ClubPinTTL),
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("store pending club: %w", err)
	}
	sent, err := s.deliver(ctx, email, p.ClubName, pin)
	if err != nil {
		return nil, err
	}
	return &SignupResult{Pending: p, EmailSent: sent}, nil
}

func (s *service) SendPin(ctx context.Context, req SendPinRequest) (bool, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.ClubName == "" || req.Pin == "" {
		return false, fmt.Errorf("email, clubName and pin are required: %w", domain.ErrBadRequest)
	}
	return s.deliver(ctx, email, req.ClubName, req.Pin)
}

func (s *service) deliver(ctx context.Context, email, clubName, pin string) (bool, error) {
	if s.mailer == nil {
		slog.Warn("email not configured, club PIN not delivered", "email", email, "club", clubName, "pin", pin)
		return false, nil
	}
	if err := s.mailer.SendEmail(ctx, mail.ClubPinEmail(email, clubName, pin)); err != nil {
		return false, fmt.Errorf("send club PIN email: %w", err)
	}
	return true, nil
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) (*domain.PendingClub, error) {
	email := normalizeEmail(req.ClubEmail)
	pin := strings.TrimSpace(req.Pin)
	if email == "" || pin == "" {
		return nil, fmt.Errorf("clubEmail and pin are required: %w", domain.ErrBadRequest)
	}
	p, err := s.repo.FindByEmailAndPin(ctx, email, pin)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("look up pending club: %w", err)
		}
		return nil, s.notFound(ctx, email)
	}
	if p.Expired(s.now()) {
		return nil, ErrPinExpired
	}
	return p, nil
}

func (s *service) notFound(ctx context.Context, email string) error {
	nf := &PinNotFoundError{Debug: PinDebug{Email: email, IssuedPins: []IssuedPin{}}}
	issued, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		slog.Warn("failed to list pending clubs for debug", "email", email, "err", err)
		return nf
	}
	for _, p := range issued {
		nf.Debug.IssuedPins = append(nf.Debug.IssuedPins, IssuedPin{
			Pin: p.Pin, Status: p.Status, ExpiresAt: p.ExpiresAt, CreatedAt: p.CreatedAt,
		})
	}
	slog.Info("club PIN miss", "email", email, "issued", len(issued))
	return nf
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
