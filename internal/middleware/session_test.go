package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkov/contactbook/internal/session"
)

func TestWithSession_AttachesContext(t *testing.T) {
	manager := session.NewManager(time.Hour)

	var got *session.Context
	handler := WithSession(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got == nil {
		t.Fatal("expected a session context to be attached")
	}
	if _, ok := got.CurrentUserID(); ok {
		t.Error("expected an anonymous session for a cookieless request")
	}
}

func TestRequireAuth(t *testing.T) {
	manager := session.NewManager(time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		handler := WithSession(manager)(RequireAuth(next))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/create", nil))

		if rec.Code != http.StatusFound {
			t.Fatalf("expected redirect, got %d", rec.Code)
		}
		if loc := rec.Result().Header.Get("Location"); loc != "/login" {
			t.Errorf("expected /login, got %q", loc)
		}
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		// Log a user in to get a valid cookie.
		loginRec := httptest.NewRecorder()
		authed := WithSession(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			SessionFromContext(r.Context()).SetUser(1)
		}))
		authed.ServeHTTP(loginRec, httptest.NewRequest("POST", "/login", nil))
		cookie := loginRec.Result().Cookies()[0]

		handler := WithSession(manager)(RequireAuth(next))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/create", nil)
		req.AddCookie(cookie)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestRequireAuth_NoSessionMiddleware(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/create", nil))

	if rec.Code != http.StatusFound {
		t.Errorf("expected redirect, got %d", rec.Code)
	}
}
