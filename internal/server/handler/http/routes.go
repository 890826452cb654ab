package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avolkov/contactbook/internal/middleware"
	"github.com/avolkov/contactbook/internal/session"
)

// NewRouter constructs the HTTP handler serving the contact book pages.
//
// Routes:
//
//	GET  /login        → login form
//	POST /login        → authenticate, redirect to / on success
//	GET  /signup       → signup form
//	POST /signup       → create user, redirect to /login
//	POST /logout       → destroy session, redirect to /
//	GET  /             → contact list
//	GET  /create       → create form           (requires login)
//	POST /create       → create contact        (requires login)
//	GET  /{id}/edit    → edit form             (requires login)
//	POST /{id}/edit    → update contact        (requires login)
//	GET  /{id}/delete  → delete confirmation   (requires login)
//	POST /{id}/delete  → delete contact        (requires login)
//	GET  /{id}         → view single contact
//
// The literal /create path and the /{id}/edit and /{id}/delete patterns are
// registered ahead of the bare /{id} pattern so a path like /create is never
// captured as a contact id.
func NewRouter(
	contactHandler *ContactHandler,
	authHandler *AuthHandler,
	sessions *session.Manager,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Attach the per-request session capability
	r.Use(middleware.WithSession(sessions))

	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/signup", authHandler.SignupForm)
	r.Post("/signup", authHandler.Signup)
	r.Post("/logout", authHandler.Logout)

	r.Get("/", contactHandler.Index)

	// Protected group: every mutating contact route requires a logged-in
	// session; anonymous requests are redirected to /login.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/create", contactHandler.CreateForm)
		r.Post("/create", contactHandler.Create)
		r.Get("/{id}/edit", contactHandler.EditForm)
		r.Post("/{id}/edit", contactHandler.Edit)
		r.Get("/{id}/delete", contactHandler.DeleteForm)
		r.Post("/{id}/delete", contactHandler.Delete)
	})

	r.Get("/{id}", contactHandler.Show)

	return r
}
