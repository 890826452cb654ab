package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/avolkov/contactbook/internal/apperror"
	"github.com/avolkov/contactbook/internal/middleware"
	"github.com/avolkov/contactbook/internal/models"
	"github.com/avolkov/contactbook/internal/service"
)

// AuthProvider defines the authentication operations required by the HTTP
// handlers.
type AuthProvider interface {
	// Validate checks credentials. A match returns the user and true; an
	// unknown username and a wrong password are indistinguishable.
	Validate(ctx context.Context, username, password string) (*models.User, bool, error)
	// Signup creates a new user from the signup form.
	Signup(ctx context.Context, in service.SignupInput) error
	// UserByID looks up a user for display purposes.
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthHandler handles the login, signup, and logout pages.
type AuthHandler struct {
	// Auth performs the underlying authentication operations.
	Auth AuthProvider
	// Views renders the HTML pages.
	Views *Renderer
	// Log is the request-scoped structured logger.
	Log *zap.Logger
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, http.StatusOK, "login", viewData{})
}

// Login authenticates the submitted credentials. Success tags the session
// with the user's id and redirects to the contact list; failure re-renders
// the form with a message that does not reveal which field was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	user, ok, err := h.Auth.Validate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.Log.Error("login failed", zap.Error(err))
		h.Views.Render(w, http.StatusInternalServerError, "error", viewData{})
		return
	}
	if !ok {
		h.Views.Render(w, http.StatusOK, "login", viewData{Error: "Invalid username or password"})
		return
	}

	middleware.SessionFromContext(r.Context()).SetUser(user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

// SignupForm renders the signup page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, http.StatusOK, "signup", viewData{})
}

// Signup creates a new account. The new user is not logged in; success
// redirects to the login page. Validation failures and duplicate usernames
// re-render the form with a message and create no row.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	in := service.SignupInput{
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	err := h.Auth.Signup(r.Context(), in)
	switch {
	case err == nil:
		http.Redirect(w, r, "/login", http.StatusFound)
	case apperror.IsValidation(err):
		h.Views.Render(w, http.StatusOK, "signup", viewData{Error: err.Error()})
	case errors.Is(err, apperror.ErrConstraint):
		h.Views.Render(w, http.StatusOK, "signup", viewData{Error: "Username already exists"})
	default:
		h.Log.Error("signup failed", zap.Error(err))
		h.Views.Render(w, http.StatusInternalServerError, "error", viewData{})
	}
}

// Logout destroys the session entirely and redirects to the contact list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.SessionFromContext(r.Context()).Destroy()
	http.Redirect(w, r, "/", http.StatusFound)
}
