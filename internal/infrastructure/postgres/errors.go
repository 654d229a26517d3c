package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/campus-events-api/internal/domain"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// mapErr translates driver errors into domain sentinels. what names the
// entity for the error message.
func mapErr(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s not found: %w", what, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fmt.Errorf("%s already exists: %w", what, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// expectOne reports ErrNotFound when an UPDATE or DELETE touched no rows.
func expectOne(what string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %w", what, domain.ErrNotFound)
	}
	return nil
}
