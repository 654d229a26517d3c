package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/campus-events-api/internal/domain"
)

const eventColumns = `event_id, club_id, title, description, location, starts_at, ends_at, image_url, created_by, created_at, updated_at`

type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) Put(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.EventID, e.ClubID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.ImageURL, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	return mapErr("event", err)
}

func (r *EventRepo) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE event_id = $1`, eventID)
	e, err := scanEvent(row)
	return e, mapErr("event", err)
}

func (r *EventRepo) ListByClub(ctx context.Context, clubID string) ([]domain.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE club_id = $1 ORDER BY starts_at`, clubID)
}

// ListUpcoming returns events that have not ended by after, soonest first.
func (r *EventRepo) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE ends_at > $1 ORDER BY starts_at LIMIT $2`, after, limit)
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET title = $2, description = $3, location = $4, starts_at = $5, ends_at = $6,
			image_url = $7, updated_at = $8
		WHERE event_id = $1`,
		e.EventID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.ImageURL, e.UpdatedAt)
	if err != nil {
		return mapErr("event", err)
	}
	return expectOne("event", res)
}

func (r *EventRepo) Delete(ctx context.Context, eventID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
	if err != nil {
		return mapErr("event", err)
	}
	return expectOne("event", res)
}

func (r *EventRepo) list(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list events", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, mapErr("scan event", err)
		}
		events = append(events, *e)
	}
	return events, mapErr("list events", rows.Err())
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	var e domain.Event
	if err := s.Scan(&e.EventID, &e.ClubID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt,
		&e.ImageURL, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
