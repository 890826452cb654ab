package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avolkov/contactbook/internal/apperror"
	"github.com/avolkov/contactbook/internal/middleware"
	"github.com/avolkov/contactbook/internal/models"
	"github.com/avolkov/contactbook/internal/service"
)

// ContactProvider defines the contact operations required by the HTTP
// handlers. Ids are passed raw; non-numeric values behave as not found.
type ContactProvider interface {
	List(ctx context.Context) ([]models.Contact, error)
	Get(ctx context.Context, rawID string) (*models.Contact, error)
	Create(ctx context.Context, in service.ContactInput) (int64, error)
	Update(ctx context.Context, rawID string, in service.ContactInput) error
	Delete(ctx context.Context, rawID string) error
}

// UserProvider resolves the session's user id to a displayable user record.
type UserProvider interface {
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// ContactHandler handles the contact listing, viewing, and mutation pages.
type ContactHandler struct {
	// Contacts performs the underlying contact operations.
	Contacts ContactProvider
	// Users resolves the logged-in user for page headers.
	Users UserProvider
	// Views renders the HTML pages.
	Views *Renderer
	// Log is the request-scoped structured logger.
	Log *zap.Logger
}

// Index renders the contact list, sorted by last then first name.
func (h *ContactHandler) Index(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Contacts.List(r.Context())
	if err != nil {
		h.serverError(w, "list contacts", err)
		return
	}
	h.Views.Render(w, http.StatusOK, "index", viewData{
		User:     h.currentUser(r),
		Contacts: contacts,
	})
}

// Show renders a single contact, or the not-found page for an unknown id.
func (h *ContactHandler) Show(w http.ResponseWriter, r *http.Request) {
	contact, err := h.Contacts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, apperror.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, "get contact", err)
		return
	}
	h.Views.Render(w, http.StatusOK, "contact", viewData{
		User:    h.currentUser(r),
		Contact: contact,
	})
}

// CreateForm renders an empty contact form.
func (h *ContactHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, http.StatusOK, "create", viewData{
		User:    h.currentUser(r),
		Contact: &models.Contact{},
	})
}

// Create inserts a new contact and redirects to the list. A validation
// failure re-renders the form with the submitted values preserved.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	in := contactInputFromForm(r)

	_, err := h.Contacts.Create(r.Context(), in)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusFound)
	case apperror.IsValidation(err):
		h.Views.Render(w, http.StatusOK, "create", viewData{
			User:    h.currentUser(r),
			Contact: formContact(0, in),
			Error:   err.Error(),
		})
	default:
		h.serverError(w, "create contact", err)
	}
}

// EditForm renders the edit form for an existing contact.
func (h *ContactHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	contact, err := h.Contacts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, apperror.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, "get contact", err)
		return
	}
	h.Views.Render(w, http.StatusOK, "edit", viewData{
		User:    h.currentUser(r),
		Contact: contact,
	})
}

// Edit overwrites the contact's fields and redirects to its page.
func (h *ContactHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	rawID := chi.URLParam(r, "id")
	in := contactInputFromForm(r)

	err := h.Contacts.Update(r.Context(), rawID, in)
	switch {
	case err == nil:
		http.Redirect(w, r, "/"+rawID, http.StatusFound)
	case apperror.IsValidation(err):
		id, _ := strconv.ParseInt(rawID, 10, 64)
		h.Views.Render(w, http.StatusOK, "edit", viewData{
			User:    h.currentUser(r),
			Contact: formContact(id, in),
			Error:   err.Error(),
		})
	default:
		h.serverError(w, "update contact", err)
	}
}

// DeleteForm renders the delete confirmation page.
func (h *ContactHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	contact, err := h.Contacts.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, apperror.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, "get contact", err)
		return
	}
	h.Views.Render(w, http.StatusOK, "delete", viewData{
		User:    h.currentUser(r),
		Contact: contact,
	})
}

// Delete removes the contact and redirects to the list. Deleting an id that
// no longer exists still redirects; the outcome is the same.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serverError(w, "delete contact", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// currentUser resolves the session's user for display, nil when anonymous
// or when the lookup fails.
func (h *ContactHandler) currentUser(r *http.Request) *models.User {
	sc := middleware.SessionFromContext(r.Context())
	if sc == nil {
		return nil
	}
	id, ok := sc.CurrentUserID()
	if !ok {
		return nil
	}
	user, err := h.Users.UserByID(r.Context(), id)
	if err != nil {
		return nil
	}
	return user
}

// serverError logs the failure and renders the error page.
func (h *ContactHandler) serverError(w http.ResponseWriter, op string, err error) {
	h.Log.Error(op, zap.Error(err))
	h.Views.Render(w, http.StatusInternalServerError, "error", viewData{})
}

// notFound renders the 404 page.
func (h *ContactHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, http.StatusNotFound, "notfound", viewData{User: h.currentUser(r)})
}

// contactInputFromForm collects the contact form fields. Checkbox presence
// is the truthy signal for the contact-by flags.
func contactInputFromForm(r *http.Request) service.ContactInput {
	return service.ContactInput{
		FirstName:      r.PostFormValue("first_name"),
		LastName:       r.PostFormValue("last_name"),
		PhoneNumber:    r.PostFormValue("phone_number"),
		EmailAddress:   r.PostFormValue("email_address"),
		Street:         r.PostFormValue("street"),
		City:           r.PostFormValue("city"),
		State:          r.PostFormValue("state"),
		Zip:            r.PostFormValue("zip"),
		Country:        r.PostFormValue("country"),
		ContactByEmail: r.PostForm.Has("contact_by_email"),
		ContactByPhone: r.PostForm.Has("contact_by_phone"),
	}
}

// formContact rebuilds a Contact from submitted input so a failed form keeps
// the user's values.
func formContact(id int64, in service.ContactInput) *models.Contact {
	flag := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	return &models.Contact{
		ID:             id,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PhoneNumber:    in.PhoneNumber,
		EmailAddress:   in.EmailAddress,
		Street:         in.Street,
		City:           in.City,
		State:          in.State,
		Zip:            in.Zip,
		Country:        in.Country,
		ContactByEmail: flag(in.ContactByEmail),
		ContactByPhone: flag(in.ContactByPhone),
	}
}
