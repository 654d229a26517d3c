package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-events-api/internal/domain"
)

const userColumns = `user_id, email, full_name, avatar_url, provider, last_sign_in_at, created_at, updated_at`

// UserRepo stores mirrored auth-provider users.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Upsert inserts u or refreshes its profile when the user_id exists. The
// original created_at survives.
func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			avatar_url = EXCLUDED.avatar_url,
			provider = EXCLUDED.provider,
			last_sign_in_at = EXCLUDED.last_sign_in_at,
			updated_at = EXCLUDED.updated_at
		RETURNING `+userColumns,
		u.UserID, u.Email, u.FullName, u.AvatarURL, u.Provider, u.LastSignInAt, u.CreatedAt, u.UpdatedAt)
	stored, err := scanUser(row)
	return stored, mapErr("user", err)
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	u, err := scanUser(row)
	return u, mapErr("user", err)
}

func scanUser(s rowScanner) (*domain.User, error) {
	var u domain.User
	if err := s.Scan(&u.UserID, &u.Email, &u.FullName, &u.AvatarURL, &u.Provider, &u.LastSignInAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
