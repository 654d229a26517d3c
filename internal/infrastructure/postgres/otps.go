package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/campus-events-api/internal/domain"
)

const otpColumns = `otp_id, club_id, user_id, sent_to_email, code, status, expires_at, used_at, created_at`

// OTPRepo stores club access codes. A partial unique index keeps at most
// one pending row per code, so Create reports a collision with a live code
// as ErrConflict.
type OTPRepo struct {
	db *sql.DB
}

func NewOTPRepo(db *sql.DB) *OTPRepo {
	return &OTPRepo{db: db}
}

// Create first retires pending rows holding the same code whose window closed
// before o.CreatedAt, so a lapsed code does not keep its slot in the index.
func (r *OTPRepo) Create(ctx context.Context, o *domain.ClubAccessOTP) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("club access code", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE club_access_otps SET status = 'expired'
		WHERE code = $1 AND status = 'pending' AND expires_at < $2`, o.Code, o.CreatedAt); err != nil {
		return mapErr("club access code", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO club_access_otps (`+otpColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.OTPID, o.ClubID, o.UserID, o.SentToEmail, o.Code, o.Status, o.ExpiresAt, nullTime(o.UsedAt), o.CreatedAt); err != nil {
		return mapErr("club access code", err)
	}
	return mapErr("club access code", tx.Commit())
}

func (r *OTPRepo) FindPending(ctx context.Context, clubID, code string) (*domain.ClubAccessOTP, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+otpColumns+` FROM club_access_otps
		WHERE club_id = $1 AND code = $2 AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1`, clubID, code)
	o, err := scanOTP(row)
	return o, mapErr("club access code", err)
}

// MarkUsed moves a pending row to used. A row that already left pending
// reports ErrNotFound.
func (r *OTPRepo) MarkUsed(ctx context.Context, otpID string, usedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE club_access_otps SET status = 'used', used_at = $2
		WHERE otp_id = $1 AND status = 'pending'`, otpID, usedAt)
	if err != nil {
		return mapErr("club access code", err)
	}
	return expectOne("pending club access code", res)
}

func (r *OTPRepo) MarkExpired(ctx context.Context, otpID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE club_access_otps SET status = 'expired'
		WHERE otp_id = $1 AND status = 'pending'`, otpID)
	if err != nil {
		return mapErr("club access code", err)
	}
	return expectOne("pending club access code", res)
}

func scanOTP(s rowScanner) (*domain.ClubAccessOTP, error) {
	var o domain.ClubAccessOTP
	var usedAt sql.NullTime
	if err := s.Scan(&o.OTPID, &o.ClubID, &o.UserID, &o.SentToEmail, &o.Code, &o.Status, &o.ExpiresAt, &usedAt, &o.CreatedAt); err != nil {
		return nil, err
	}
	if usedAt.Valid {
		t := usedAt.Time
		o.UsedAt = &t
	}
	return &o, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
