package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	mw := NewAuthMiddleware()
	next := func(c echo.Context) error {
		uid, _ := c.Get("uid").(string)
		return c.String(http.StatusOK, uid)
	}

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := mw.RequireAuth(next)(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("blank header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(ActorHeader, "   ")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := mw.RequireAuth(next)(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("uid resolved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(ActorHeader, "user-42")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := mw.RequireAuth(next)(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusOK || rec.Body.String() != "user-42" {
			t.Errorf("got %d %q, want 200 user-42", rec.Code, rec.Body.String())
		}
	})
}
