// Package service provides the contact and authentication business logic,
// delegating persistence to repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avolkov/contactbook/internal/apperror"
	"github.com/avolkov/contactbook/internal/models"
)

// defaultStoreTimeout bounds every store call issued by the services.
const defaultStoreTimeout = 5 * time.Second

// ContactRepository defines the persistence operations required by the
// contact service.
type ContactRepository interface {
	ListContacts(ctx context.Context) ([]models.Contact, error)
	GetContact(ctx context.Context, id int64) (*models.Contact, error)
	CreateContact(ctx context.Context, c models.Contact) (int64, error)
	UpdateContact(ctx context.Context, id int64, c models.Contact) error
	DeleteContact(ctx context.Context, id int64) error
}

// ContactInput carries validated form fields for creating or updating a
// contact. Boolean flags arrive as checkbox presence and are normalized to
// stored 0/1 values.
type ContactInput struct {
	FirstName      string
	LastName       string
	PhoneNumber    string
	EmailAddress   string
	Street         string
	City           string
	State          string
	Zip            string
	Country        string
	ContactByEmail bool
	ContactByPhone bool
}

// ContactService implements contact operations by delegating to a
// ContactRepository.
type ContactService struct {
	repo    ContactRepository
	timeout time.Duration
}

// NewContactService constructs a ContactService using the provided repository.
func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo, timeout: defaultStoreTimeout}
}

// List returns all contacts sorted by last name then first name.
func (s *ContactService) List(ctx context.Context) ([]models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return contacts, nil
}

// Get returns the contact addressed by rawID. A non-numeric or out-of-range
// id is treated as not found, not as an error.
func (s *ContactService) Get(ctx context.Context, rawID string) (*models.Contact, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, apperror.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contact, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return contact, nil
}

// Create validates in and inserts a new contact, returning the assigned id.
func (s *ContactService) Create(ctx context.Context, in ContactInput) (int64, error) {
	if err := validateContact(in); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.repo.CreateContact(ctx, contactFromInput(in))
	if err != nil {
		return 0, storeErr(err)
	}
	return id, nil
}

// Update overwrites every field of the contact addressed by rawID. When no
// row matches, the operation affects zero rows and succeeds; callers that
// care about absence must check existence first.
func (s *ContactService) Update(ctx context.Context, rawID string, in ContactInput) error {
	id, ok := parseID(rawID)
	if !ok {
		return nil
	}
	if err := validateContact(in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.UpdateContact(ctx, id, contactFromInput(in)); err != nil {
		return storeErr(err)
	}
	return nil
}

// Delete removes the contact addressed by rawID. Absent ids are a no-op.
func (s *ContactService) Delete(ctx context.Context, rawID string) error {
	id, ok := parseID(rawID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.DeleteContact(ctx, id); err != nil {
		return storeErr(err)
	}
	return nil
}

// validateContact enforces the required-field rules for contact mutations.
func validateContact(in ContactInput) error {
	if strings.TrimSpace(in.FirstName) == "" {
		return apperror.Validation("First name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return apperror.Validation("Last name is required")
	}
	return nil
}

// contactFromInput maps validated input onto the stored row shape,
// normalizing the boolean flags to 0/1.
func contactFromInput(in ContactInput) models.Contact {
	return models.Contact{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PhoneNumber:    in.PhoneNumber,
		EmailAddress:   in.EmailAddress,
		Street:         in.Street,
		City:           in.City,
		State:          in.State,
		Zip:            in.Zip,
		Country:        in.Country,
		ContactByEmail: boolToFlag(in.ContactByEmail),
		ContactByPhone: boolToFlag(in.ContactByPhone),
	}
}

func boolToFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseID parses a path segment into a store identifier.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// storeErr converts a store deadline overrun into ErrStorageUnavailable so
// callers see one failure mode for an unreachable store.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("store timeout: %w", apperror.ErrStorageUnavailable)
	}
	return err
}
