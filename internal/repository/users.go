package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/avolkov/contactbook/internal/apperror"
	"github.com/avolkov/contactbook/internal/models"
)

// SQLUserRepository implements user lookups and creation against the
// relational store.
type SQLUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewSQLUserRepository creates a new SQLUserRepository with the given
// database connection.
func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{DB: db}
}

// GetByUsername returns the user with the given username, or
// apperror.ErrNotFound. The match is case sensitive.
func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.GetContext(ctx, &user, r.DB.Rebind(`
		SELECT * FROM users WHERE username = ?
	`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: %w", err)
	}
	return &user, nil
}

// GetByID returns the user with the given id, or apperror.ErrNotFound.
func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.DB.GetContext(ctx, &user, r.DB.Rebind(`
		SELECT * FROM users WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new user row and returns the assigned id. The caller
// supplies PasswordHash already hashed; this layer never sees plaintext.
// A duplicate username surfaces as apperror.ErrConstraint.
func (r *SQLUserRepository) CreateUser(ctx context.Context, u models.User) (int64, error) {
	const stmt = `
		INSERT INTO users (first_name, last_name, username, password)
		VALUES (?, ?, ?, ?)
	`
	args := []any{u.FirstName, u.LastName, u.Username, u.PasswordHash}

	if r.DB.DriverName() == "postgres" {
		var id int64
		err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(stmt+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			if mapped := mapConstraint(err); errors.Is(mapped, apperror.ErrConstraint) {
				return 0, mapped
			}
			return 0, fmt.Errorf("CreateUser: %w", err)
		}
		return id, nil
	}

	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(stmt), args...)
	if err != nil {
		if mapped := mapConstraint(err); errors.Is(mapped, apperror.ErrConstraint) {
			return 0, mapped
		}
		return 0, fmt.Errorf("CreateUser: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateUser id: %w", err)
	}
	return id, nil
}
