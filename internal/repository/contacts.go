// Package repository provides persistence implementations for the contact
// and user stores over a single sqlx database handle.
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

// SQLContactRepository implements contact CRUD against the relational store.
// Statements are written with ? placeholders and rebound for the active
// driver, so the same repository serves both SQLite and PostgreSQL.
type SQLContactRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewSQLContactRepository creates a new SQLContactRepository with the given
// database connection.
func NewSQLContactRepository(db *sqlx.DB) *SQLContactRepository {
	return &SQLContactRepository{DB: db}
}

// ListContacts returns all contacts ordered by last name then first name,
// both ascending. The result may be empty.
func (r *SQLContactRepository) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.DB.SelectContext(ctx, &contacts, `
		SELECT * FROM contacts ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("ListContacts: %w", err)
	}
	return contacts, nil
}

// GetContact returns the contact matching id, or apperror.ErrNotFound if no
// such row exists.
func (r *SQLContactRepository) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	var contact models.Contact
	err := r.DB.GetContext(ctx, &contact, r.DB.Rebind(`
		SELECT * FROM contacts WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetContact: %w", err)
	}
	return &contact, nil
}

// CreateContact inserts a new contact row and returns the assigned id.
func (r *SQLContactRepository) CreateContact(ctx context.Context, c models.Contact) (int64, error) {
	const stmt = `
		INSERT INTO contacts
		(first_name, last_name, phone_number, email_address, street, city, state, zip, country, contact_by_email, contact_by_phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []any{
		c.FirstName, c.LastName, c.PhoneNumber, c.EmailAddress,
		c.Street, c.City, c.State, c.Zip, c.Country,
		c.ContactByEmail, c.ContactByPhone,
	}

	// lib/pq does not support LastInsertId; ask postgres for the id directly.
	if r.DB.DriverName() == "postgres" {
		var id int64
		err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(stmt+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("CreateContact: %w", err)
		}
		return id, nil
	}

	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(stmt), args...)
	if err != nil {
		return 0, fmt.Errorf("CreateContact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateContact id: %w", err)
	}
	return id, nil
}

// UpdateContact overwrites every mutable field of the contact matching id.
// Updating an id with no matching row affects zero rows and is not an error.
func (r *SQLContactRepository) UpdateContact(ctx context.Context, id int64, c models.Contact) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		UPDATE contacts SET
		first_name = ?, last_name = ?, phone_number = ?, email_address = ?,
		street = ?, city = ?, state = ?, zip = ?, country = ?,
		contact_by_email = ?, contact_by_phone = ?
		WHERE id = ?
	`),
		c.FirstName, c.LastName, c.PhoneNumber, c.EmailAddress,
		c.Street, c.City, c.State, c.Zip, c.Country,
		c.ContactByEmail, c.ContactByPhone,
		id,
	)
	if err != nil {
		return fmt.Errorf("UpdateContact: %w", err)
	}
	return nil
}

// DeleteContact removes the contact matching id. Deleting an absent id is a
// no-op.
func (r *SQLContactRepository) DeleteContact(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM contacts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("DeleteContact: %w", err)
	}
	return nil
}
