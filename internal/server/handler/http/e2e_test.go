package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avolkov/contactbook/internal/db"
	"github.com/avolkov/contactbook/internal/repository"
	handler "github.com/avolkov/contactbook/internal/server/handler/http"
	"github.com/avolkov/contactbook/internal/service"
	"github.com/avolkov/contactbook/internal/session"
)

// newApp wires the full stack over a throwaway SQLite file, the way main does.
func newApp(t *testing.T) http.Handler {
	t.Helper()

	store, err := db.Open(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	contactService := service.NewContactService(repository.NewSQLContactRepository(store))
	authService := service.NewAuthService(repository.NewSQLUserRepository(store))
	require.NoError(t, authService.EnsureDefaultUser(context.Background()))
	// Provisioning on every start never duplicates the default account.
	require.NoError(t, authService.EnsureDefaultUser(context.Background()))

	views, err := handler.NewRenderer(zap.NewNop())
	require.NoError(t, err)

	sessions := session.NewManager(time.Hour)
	contactHandler := &handler.ContactHandler{
		Contacts: contactService, Users: authService, Views: views, Log: zap.NewNop(),
	}
	authHandler := &handler.AuthHandler{Auth: authService, Views: views, Log: zap.NewNop()}
	return handler.NewRouter(contactHandler, authHandler, sessions, zap.NewNop())
}

func post(router http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestDefaultAccountLogin(t *testing.T) {
	router := newApp(t)

	rec := post(router, "/login", url.Values{
		"username": {"cmps369"}, "password": {"rcnj"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Result().Header.Get("Location"))
	sessionCookie(t, rec)
}

func TestSignupThenLogin(t *testing.T) {
	router := newApp(t)

	rec := post(router, "/signup", url.Values{
		"first_name": {"Bob"}, "last_name": {"Builder"},
		"username": {"bob"}, "password": {"p1"}, "confirm_password": {"p1"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Result().Header.Get("Location"))

	// Wrong password: same message as an unknown user, no session issued.
	rec = post(router, "/login", url.Values{
		"username": {"bob"}, "password": {"wrong"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid username or password")
	require.Empty(t, rec.Result().Cookies())

	rec = post(router, "/login", url.Values{
		"username": {"ghost"}, "password": {"p1"},
	}, nil)
	require.Contains(t, rec.Body.String(), "Invalid username or password")

	// Correct credentials authenticate the session.
	rec = post(router, "/login", url.Values{
		"username": {"bob"}, "password": {"p1"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	cookie := sessionCookie(t, rec)

	rec = get(router, "/", cookie)
	require.Contains(t, rec.Body.String(), "Bob Builder")
}

func TestSignup_DuplicateUsername(t *testing.T) {
	router := newApp(t)

	form := url.Values{
		"first_name": {"Bob"}, "last_name": {"Builder"},
		"username": {"bob"}, "password": {"p1"}, "confirm_password": {"p1"},
	}
	require.Equal(t, http.StatusFound, post(router, "/signup", form, nil).Code)

	rec := post(router, "/signup", form, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Username already exists")
}

func TestContactCRUDThroughPages(t *testing.T) {
	router := newApp(t)

	rec := post(router, "/login", url.Values{
		"username": {"cmps369"}, "password": {"rcnj"},
	}, nil)
	cookie := sessionCookie(t, rec)

	// Create.
	rec = post(router, "/create", url.Values{
		"first_name":       {"Ada"},
		"last_name":        {"Lovelace"},
		"email_address":    {"ada@x.io"},
		"contact_by_email": {"on"},
	}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Result().Header.Get("Location"))

	rec = get(router, "/", cookie)
	require.Contains(t, rec.Body.String(), "Lovelace, Ada")

	// First row in a fresh store gets id 1.
	rec = get(router, "/1", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ada@x.io")

	// Update overwrites every field, flags included.
	rec = post(router, "/1/edit", url.Values{
		"first_name": {"Ada"},
		"last_name":  {"King"},
	}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/1", rec.Result().Header.Get("Location"))

	rec = get(router, "/1", cookie)
	body := rec.Body.String()
	require.Contains(t, body, "Ada King")
	require.NotContains(t, body, "ada@x.io")

	// Delete, then the contact is gone.
	rec = post(router, "/1/delete", url.Values{}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = get(router, "/1", cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(router, "/", cookie)
	require.Contains(t, rec.Body.String(), "No contacts yet")
}

func TestAnonymousReadOnly(t *testing.T) {
	router := newApp(t)

	rec := post(router, "/login", url.Values{
		"username": {"cmps369"}, "password": {"rcnj"},
	}, nil)
	cookie := sessionCookie(t, rec)
	post(router, "/create", url.Values{
		"first_name": {"Ada"}, "last_name": {"Lovelace"},
	}, cookie)

	// Reads are open.
	require.Equal(t, http.StatusOK, get(router, "/", nil).Code)
	require.Equal(t, http.StatusOK, get(router, "/1", nil).Code)

	// Mutations redirect to login.
	rec = post(router, "/1/delete", url.Values{}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Result().Header.Get("Location"))

	// And the row is still there.
	require.Equal(t, http.StatusOK, get(router, "/1", nil).Code)
}
