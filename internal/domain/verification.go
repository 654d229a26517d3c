package domain

import "time"

// Lifetimes of the two verification credentials.
const (
	ClubPinTTL       = 48 * time.Hour
	ClubAccessOTPTTL = 10 * time.Minute
)

// OTP lifecycle. A row leaves OTPStatusPending exactly once and never returns.
const (
	OTPStatusPending = "pending"
	OTPStatusUsed    = "used"
	OTPStatusExpired = "expired"
)

const PendingClubStatusPending = "pending"

// PendingClub is a club registration waiting for its official email to
// confirm the 8-digit PIN.
type PendingClub struct {
	PendingClubID string    `json:"id" dynamodbav:"pending_club_id"`
	UserID        string    `json:"userId" dynamodbav:"user_id"`
	ClubName      string    `json:"clubName" dynamodbav:"club_name"`
	OfficialEmail string    `json:"officialEmail" dynamodbav:"official_email"`
	Pin           string    `json:"pin" dynamodbav:"pin"`
	Status        string    `json:"status" dynamodbav:"status"`
	ExpiresAt     time.Time `json:"expiresAt" dynamodbav:"expires_at,unixtime"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// Expired reports whether the PIN window has closed at now.
func (p *PendingClub) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// ClubAccessOTP grants an organizer one-time access to a club dashboard.
type ClubAccessOTP struct {
	OTPID       string     `json:"id" dynamodbav:"otp_id"`
	ClubID      string     `json:"clubId" dynamodbav:"club_id"`
	UserID      string     `json:"userId" dynamodbav:"user_id"`
	SentToEmail string     `json:"sentToEmail" dynamodbav:"sent_to_email"`
	Code        string     `json:"-" dynamodbav:"code"`
	Status      string     `json:"status" dynamodbav:"status"`
	ExpiresAt   time.Time  `json:"expiresAt" dynamodbav:"expires_at,unixtime"`
	UsedAt      *time.Time `json:"usedAt,omitempty" dynamodbav:"used_at,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" dynamodbav:"created_at"`
}

// Expired reports whether the code's window has closed at now.
func (o *ClubAccessOTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
