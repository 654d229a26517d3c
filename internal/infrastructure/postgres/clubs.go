package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-events-api/internal/domain"
)

const clubColumns = `club_id, name, description, official_email, logo_url, owner_id, created_at, updated_at`

type ClubRepo struct {
	db *sql.DB
}

func NewClubRepo(db *sql.DB) *ClubRepo {
	return &ClubRepo{db: db}
}

func (r *ClubRepo) Put(ctx context.Context, c *domain.Club) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clubs (`+clubColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ClubID, c.Name, c.Description, c.OfficialEmail, c.LogoURL, c.OwnerID, c.CreatedAt, c.UpdatedAt)
	return mapErr("club", err)
}

func (r *ClubRepo) Get(ctx context.Context, clubID string) (*domain.Club, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clubColumns+` FROM clubs WHERE club_id = $1`, clubID)
	c, err := scanClub(row)
	return c, mapErr("club", err)
}

// List returns the newest clubs first.
func (r *ClubRepo) List(ctx context.Context, limit int) ([]domain.Club, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clubColumns+` FROM clubs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, mapErr("list clubs", err)
	}
	defer rows.Close()

	clubs := []domain.Club{}
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, mapErr("scan club", err)
		}
		clubs = append(clubs, *c)
	}
	return clubs, mapErr("list clubs", rows.Err())
}

func (r *ClubRepo) Update(ctx context.Context, c *domain.Club) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clubs SET name = $2, description = $3, official_email = $4, logo_url = $5, updated_at = $6
		WHERE club_id = $1`,
		c.ClubID, c.Name, c.Description, c.OfficialEmail, c.LogoURL, c.UpdatedAt)
	if err != nil {
		return mapErr("club", err)
	}
	return expectOne("club", res)
}

func scanClub(s rowScanner) (*domain.Club, error) {
	var c domain.Club
	if err := s.Scan(&c.ClubID, &c.Name, &c.Description, &c.OfficialEmail, &c.LogoURL, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
