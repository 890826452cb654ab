package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov/contactbook/internal/apperror"
	"github.com/avolkov/contactbook/internal/models"
)

// bcryptCost is the work factor applied to stored password hashes.
const bcryptCost = 10

// dummyHash is a well-formed bcrypt hash compared against when the username
// does not exist, so an unknown username costs the same as a wrong password.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// DefaultUsername is the login name of the account provisioned on first
// schema initialization.
const DefaultUsername = "cmps369"

// defaultPassword is the fixed credential of the provisioned account.
const defaultPassword = "rcnj"

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) (int64, error)
}

// SignupInput carries the signup form fields.
type SignupInput struct {
	FirstName       string
	LastName        string
	Username        string
	Password        string
	ConfirmPassword string
}

// AuthService implements signup, credential validation, and default-account
// provisioning on top of a UserRepository.
type AuthService struct {
	repo    UserRepository
	timeout time.Duration
}

// NewAuthService constructs an AuthService using the provided repository.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo, timeout: defaultStoreTimeout}
}

// Signup validates in, hashes the password, and creates the user row.
// The new user is not logged in; an explicit login must follow.
//
// Mismatched confirmation or empty username/password yield a
// ValidationError; a duplicate username yields apperror.ErrConstraint. The
// pre-insert username check is advisory only; the store's uniqueness
// constraint settles any race.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return apperror.Validation("Username is required")
	}
	if in.Password == "" {
		return apperror.Validation("Password is required")
	}
	if in.Password != in.ConfirmPassword {
		return apperror.Validation("Passwords do not match")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return apperror.ErrConstraint
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return storeErr(err)
	}

	_, err := s.createUser(ctx, in.FirstName, in.LastName, in.Username, in.Password)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// Validate checks the supplied credentials. On a match it returns the full
// user record and true. An unknown username and a wrong password both return
// (nil, false, nil), so the caller cannot tell which field was wrong, and
// both paths pay one bcrypt comparison.
func (s *AuthService) Validate(ctx context.Context, username, password string) (*models.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, apperror.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, false, nil
	}
	return user, true, nil
}

// UserByID returns the user with the given id, or apperror.ErrNotFound.
func (s *AuthService) UserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// EnsureDefaultUser provisions the default account once. Calling it on every
// start never creates a second row: it is skipped when the username already
// exists, and a constraint violation from a concurrent start is ignored.
func (s *AuthService) EnsureDefaultUser(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.repo.GetByUsername(ctx, DefaultUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return storeErr(err)
	}

	_, err = s.createUser(ctx, "CMPS", "369", DefaultUsername, defaultPassword)
	if errors.Is(err, apperror.ErrConstraint) {
		return nil
	}
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// createUser hashes the plaintext password and persists the user row. The
// plaintext never reaches the repository or any log.
func (s *AuthService) createUser(ctx context.Context, firstName, lastName, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, err
	}
	return s.repo.CreateUser(ctx, models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		PasswordHash: string(hash),
	})
}
