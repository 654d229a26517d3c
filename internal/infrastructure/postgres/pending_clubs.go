package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-events-api/internal/domain"
)

const pendingClubColumns = `pending_club_id, user_id, club_name, official_email, pin, status, expires_at, created_at`

type PendingClubRepo struct {
	db *sql.DB
}

func NewPendingClubRepo(db *sql.DB) *PendingClubRepo {
	return &PendingClubRepo{db: db}
}

func (r *PendingClubRepo) Create(ctx context.Context, p *domain.PendingClub) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_clubs (`+pendingClubColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.PendingClubID, p.UserID, p.ClubName, p.OfficialEmail, p.Pin, p.Status, p.ExpiresAt, p.CreatedAt)
	return mapErr("pending club", err)
}

// FindByEmailAndPin returns the newest registration matching both values,
// expired or not.
func (r *PendingClubRepo) FindByEmailAndPin(ctx context.Context, email, pin string) (*domain.PendingClub, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+pendingClubColumns+` FROM pending_clubs
		WHERE official_email = $1 AND pin = $2
		ORDER BY created_at DESC LIMIT 1`, email, pin)
	p, err := scanPendingClub(row)
	return p, mapErr("pending club", err)
}

// ListByEmail returns every registration for email, newest first.
func (r *PendingClubRepo) ListByEmail(ctx context.Context, email string) ([]domain.PendingClub, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pendingClubColumns+` FROM pending_clubs
		WHERE official_email = $1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, mapErr("list pending clubs", err)
	}
	defer rows.Close()

	out := []domain.PendingClub{}
	for rows.Next() {
		p, err := scanPendingClub(rows)
		if err != nil {
			return nil, mapErr("scan pending club", err)
		}
		out = append(out, *p)
	}
	return out, mapErr("list pending clubs", rows.Err())
}

func scanPendingClub(s rowScanner) (*domain.PendingClub, error) {
	var p domain.PendingClub
	if err := s.Scan(&p.PendingClubID, &p.UserID, &p.ClubName, &p.OfficialEmail, &p.Pin, &p.Status, &p.ExpiresAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
