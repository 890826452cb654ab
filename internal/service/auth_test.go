package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov/contactbook/internal/apperror"
	"github.com/avolkov/contactbook/internal/models"
)

type mockUserRepo struct {
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id int64) (*models.User, error)
	CreateUserFunc    func(ctx context.Context, u models.User) (int64, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockUserRepo) CreateUser(ctx context.Context, u models.User) (int64, error) {
	return m.CreateUserFunc(ctx, u)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   SignupInput
		message string
	}{
		{
			name:    "empty username",
			input:   SignupInput{Password: "p1", ConfirmPassword: "p1"},
			message: "Username is required",
		},
		{
			name:    "empty password",
			input:   SignupInput{Username: "bob"},
			message: "Password is required",
		},
		{
			name:    "mismatched confirmation",
			input:   SignupInput{Username: "bob", Password: "p1", ConfirmPassword: "p2"},
			message: "Passwords do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{
				CreateUserFunc: func(ctx context.Context, u models.User) (int64, error) {
					t.Error("no row may be created for invalid input")
					return 0, nil
				},
			}
			svc := NewAuthService(repo)

			err := svc.Signup(context.Background(), tt.input)
			if !apperror.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
		CreateUserFunc: func(ctx context.Context, u models.User) (int64, error) {
			t.Error("no row may be created for a duplicate username")
			return 0, nil
		},
	}
	svc := NewAuthService(repo)

	err := svc.Signup(context.Background(), SignupInput{
		Username: "bob", Password: "p1", ConfirmPassword: "p1",
	})
	if !errors.Is(err, apperror.ErrConstraint) {
		t.Errorf("expected ErrConstraint, got %v", err)
	}
}

func TestSignup_HashesPassword(t *testing.T) {
	var created models.User
	repo := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, apperror.ErrNotFound
		},
		CreateUserFunc: func(ctx context.Context, u models.User) (int64, error) {
			created = u
			return 5, nil
		},
	}
	svc := NewAuthService(repo)

	err := svc.Signup(context.Background(), SignupInput{
		FirstName: "Bob", LastName: "Builder",
		Username: "bob", Password: "p1", ConfirmPassword: "p1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.PasswordHash == "p1" || created.PasswordHash == "" {
		t.Fatalf("plaintext must never be persisted, got %q", created.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("p1")); err != nil {
		t.Errorf("stored hash does not verify the original password: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(created.PasswordHash))
	if err != nil {
		t.Fatalf("stored value is not a bcrypt hash: %v", err)
	}
	if cost < 10 {
		t.Errorf("expected cost >= 10, got %d", cost)
	}
}

func TestValidate_Outcomes(t *testing.T) {
	storedHash := hashOf(t, "p1")
	repo := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			if username == "bob" {
				return &models.User{ID: 2, Username: "bob", PasswordHash: storedHash}, nil
			}
			return nil, apperror.ErrNotFound
		},
	}
	svc := NewAuthService(repo)

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{"correct password", "bob", "p1", true},
		{"wrong password", "bob", "wrong", false},
		{"unknown username", "ghost", "p1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, ok, err := svc.Validate(context.Background(), tt.username, tt.password)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if tt.wantOK && (user == nil || user.ID != 2) {
				t.Errorf("expected bob's record, got %+v", user)
			}
			if !tt.wantOK && user != nil {
				t.Errorf("invalid outcome must not return a user, got %+v", user)
			}
		})
	}
}

func TestEnsureDefaultUser_CreatesOnce(t *testing.T) {
	var created *models.User
	repo := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			if created != nil {
				return created, nil
			}
			return nil, apperror.ErrNotFound
		},
		CreateUserFunc: func(ctx context.Context, u models.User) (int64, error) {
			if created != nil {
				t.Error("default user created twice")
			}
			u.ID = 1
			created = &u
			return 1, nil
		},
	}
	svc := NewAuthService(repo)

	if err := svc.EnsureDefaultUser(context.Background()); err != nil {
		t.Fatalf("first provisioning failed: %v", err)
	}
	if err := svc.EnsureDefaultUser(context.Background()); err != nil {
		t.Fatalf("second provisioning failed: %v", err)
	}

	if created == nil || created.Username != DefaultUsername {
		t.Fatalf("expected default user %q, got %+v", DefaultUsername, created)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("rcnj")); err != nil {
		t.Errorf("default password hash does not verify: %v", err)
	}
}

func TestEnsureDefaultUser_LostRaceIsFine(t *testing.T) {
	repo := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, apperror.ErrNotFound
		},
		CreateUserFunc: func(ctx context.Context, u models.User) (int64, error) {
			return 0, apperror.ErrConstraint
		},
	}
	svc := NewAuthService(repo)

	if err := svc.EnsureDefaultUser(context.Background()); err != nil {
		t.Errorf("losing the provisioning race must not fail, got %v", err)
	}
}
