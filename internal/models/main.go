// Package models defines the core data structures for contacts and users.
package models

// Contact represents a single address-book entry.
type Contact struct {
	// ID is the store-assigned unique identifier for the contact.
	ID int64 `db:"id"`
	// FirstName is the contact's given name. Always present.
	FirstName string `db:"first_name"`
	// LastName is the contact's family name. Always present.
	LastName string `db:"last_name"`
	// PhoneNumber is an optional phone number.
	PhoneNumber string `db:"phone_number"`
	// EmailAddress is an optional email address.
	EmailAddress string `db:"email_address"`
	// Street is the optional street part of the postal address.
	Street string `db:"street"`
	// City is the optional city part of the postal address.
	City string `db:"city"`
	// State is the optional state part of the postal address.
	State string `db:"state"`
	// Zip is the optional postal code.
	Zip string `db:"zip"`
	// Country is the optional country part of the postal address.
	Country string `db:"country"`
	// ContactByEmail is 1 when the contact agreed to be reached by email, 0 otherwise.
	ContactByEmail int `db:"contact_by_email"`
	// ContactByPhone is 1 when the contact agreed to be reached by phone, 0 otherwise.
	ContactByPhone int `db:"contact_by_phone"`
}

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `db:"id"`
	// FirstName is the user's given name.
	FirstName string `db:"first_name"`
	// LastName is the user's family name.
	LastName string `db:"last_name"`
	// Username is the login name chosen by the user. Unique, case sensitive.
	Username string `db:"username"`
	// PasswordHash is the bcrypt hash of the user's password. The plaintext
	// credential is never persisted.
	PasswordHash string `db:"password"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
