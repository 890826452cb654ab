// Package http provides the HTTP handlers and routing for the contact book's
// server-rendered pages.
package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/avolkov/contactbook/internal/models"
	"github.com/avolkov/contactbook/web"
)

// viewData carries everything a page template can reference.
type viewData struct {
	// User is the authenticated user shown in the navigation, nil when the
	// session is anonymous.
	User *models.User
	// Contacts backs the index listing.
	Contacts []models.Contact
	// Contact backs the single-contact and form pages.
	Contact *models.Contact
	// Error is a user-visible form message.
	Error string
}

// pageNames lists every renderable page template.
var pageNames = []string{
	"index", "contact", "create", "edit", "delete",
	"login", "signup", "notfound", "error",
}

// Renderer executes the embedded view templates.
type Renderer struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

// NewRenderer parses every page against the shared layout and field partials.
func NewRenderer(log *zap.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(web.Templates,
			"templates/layout.gohtml",
			"templates/form.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, log: log}, nil
}

// Render writes the page with the given status. The template is executed
// into a buffer first so a mid-render failure never leaks a half-written page.
func (rn *Renderer) Render(w http.ResponseWriter, status int, page string, data viewData) {
	tmpl, ok := rn.pages[page]
	if !ok {
		rn.log.Error("unknown page", zap.String("page", page))
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rn.log.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
