package clubaccess

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

const (
	codeDigits    = 6
	maxIssueTries = 5
)

var (
	// ErrInvalidCode covers both "no such code" and "already used" so callers
	// cannot probe which codes exist.
	ErrInvalidCode = fmt.Errorf("invalid or already used code: %w", domain.ErrBadRequest)
	ErrCodeExpired = fmt.Errorf("code has expired, request a new one: %w", domain.ErrExpired)
)

// OTPStore persists club access codes. Create must wrap domain.ErrConflict
// when the code collides with another pending code; MarkUsed and MarkExpired
// must wrap domain.ErrNotFound when the row is no longer pending.
type OTPStore interface {
	Create(ctx context.Context, o *domain.ClubAccessOTP) error
	FindPending(ctx context.Context, clubID, code string) (*domain.ClubAccessOTP, error)
	MarkUsed(ctx context.Context, otpID string, usedAt time.Time) error
	MarkExpired(ctx context.Context, otpID string) error
}

type ClubStore interface {
	Get(ctx context.Context, clubID string) (*domain.Club, error)
}

type SendOTPRequest struct {
	ClubID string `json:"clubId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

type VerifyRequest struct {
	ClubID string `json:"clubId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
	Code   string `json:"code" validate:"required"`
}

// IssueResult reports what happened to a freshly generated code.
type IssueResult struct {
	OTP       *domain.ClubAccessOTP
	EmailSent bool
}

type Service interface {
	SendOTP(ctx context.Context, req SendOTPRequest) (*IssueResult, error)
	Verify(ctx context.Context, req VerifyRequest) (*domain.ClubAccessOTP, error)
}

// ServiceDeps wires the access-code service. Mailer may be nil.
type ServiceDeps struct {
	OTPRepo  OTPStore
	ClubRepo ClubStore
	Mailer   mail.Mailer
	Now      func() time.Time
	NewCode  func() (string, error)
}

type service struct {
	otpRepo  OTPStore
	clubRepo ClubStore
	mailer   mail.Mailer
	now      func() time.Time
	newCode  func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		otpRepo:  deps.OTPRepo,
		clubRepo: deps.ClubRepo,
		mailer:   deps.Mailer,
		now:      deps.Now,
		newCode:  deps.NewCode,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = func() (string, error) { return token.Digits(codeDigits) }
	}
	return s
}

func (s *service) SendOTP(ctx context.Context, req SendOTPRequest) (*IssueResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.ClubID == "" || req.UserID == "" || req.Email == "" {
		return nil, fmt.Errorf("clubId, userId and email are required: %w", domain.ErrBadRequest)
	}
	club, err := s.clubRepo.Get(ctx, req.ClubID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("club not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load club: %w", err)
	}

	otp, err := s.insert(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.mailer == nil {
		slog.Warn("email not configured, club access code not delivered",
			"club_id", otp.ClubID, "email", otp.SentToEmail, "code", otp.Code)
		return &IssueResult{OTP: otp}, nil
	}
	if err := s.mailer.SendEmail(ctx, mail.ClubAccessOTPEmail(otp.SentToEmail, club.Name, otp.Code)); err != nil {
		return nil, fmt.Errorf("send access code email: %w", err)
	}
	return &IssueResult{OTP: otp, EmailSent: true}, nil
}

// insert retries only on code collisions; any other store error aborts.
func (s *service) insert(ctx context.Context, req SendOTPRequest) (*domain.ClubAccessOTP, error) {
	var lastErr error
	for attempt := 1; attempt <= maxIssueTries; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		now := s.now().UTC()
		otp := &domain.ClubAccessOTP{
			OTPID:       id.NewAt(now),
			ClubID:      req.ClubID,
			UserID:      req.UserID,
			SentToEmail: req.Email,
			Code:        code,
			Status:      domain.OTPStatusPending,
			ExpiresAt:   now.Add(domain.ClubAccessOTPTTL),
			CreatedAt:   now,
		}
		err = s.otpRepo.Create(ctx, otp)
		if err == nil {
			return otp, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("store access code: %w", err)
		}
		slog.Debug("access code collision, retrying", "club_id", req.ClubID, "attempt", attempt)
		lastErr = err
	}
	return nil, fmt.Errorf("could not allocate a unique code after %d attempts: %w", maxIssueTries, lastErr)
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) (*domain.ClubAccessOTP, error) {
	if req.ClubID == "" || req.Code == "" {
		return nil, fmt.Errorf("clubId and code are required: %w", domain.ErrBadRequest)
	}
	otp, err := s.otpRepo.FindPending(ctx, req.ClubID, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("look up access code: %w", err)
	}
	if otp.UserID != req.UserID {
		slog.Warn("access code redeemed by a different user",
			"club_id", otp.ClubID, "issued_to", otp.UserID, "redeemed_by", req.UserID)
	}

	now := s.now().UTC()
	if otp.Expired(now) {
		if err := s.otpRepo.MarkExpired(ctx, otp.OTPID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("failed to mark access code expired", "otp_id", otp.OTPID, "err", err)
		}
		return nil, ErrCodeExpired
	}
	if err := s.otpRepo.MarkUsed(ctx, otp.OTPID, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("mark access code used: %w", err)
	}
	otp.Status = domain.OTPStatusUsed
	otp.UsedAt = &now
	return otp, nil
}
