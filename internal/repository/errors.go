package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/avolkov/contactbook/internal/apperror"
)

// uniqueViolationPg is the PostgreSQL error code for unique_violation.
const uniqueViolationPg = "23505"

// mapConstraint translates driver-specific uniqueness failures into
// apperror.ErrConstraint. The store's constraint is the source of truth for
// uniqueness; any pre-check in application code is advisory only.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationPg {
		return apperror.ErrConstraint
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return apperror.ErrConstraint
	}

	return err
}
