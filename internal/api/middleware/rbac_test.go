package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

func rbacContext(e *echo.Echo, user *domain.User) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(ContextUser, user)
	}
	return c
}

func TestRBAC_AllowsPermittedRole(t *testing.T) {
	e := echo.New()
	mw := RBAC(domain.RoleAdmin)

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}

	c := rbacContext(e, &domain.User{Username: "admin.user", Role: domain.RoleAdmin})
	if err := mw(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if !called {
		t.Fatalf("next not called for permitted role")
	}
}

func TestRBAC_RejectsForbiddenRole(t *testing.T) {
	e := echo.New()
	mw := RBAC(domain.RoleAdmin)

	next := func(c echo.Context) error {
		t.Fatalf("next called for forbidden role")
		return nil
	}

	c := rbacContext(e, &domain.User{Username: "jane.smith", Role: domain.RoleEmployee})
	if err := mw(next)(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_MissingUser(t *testing.T) {
	e := echo.New()
	mw := RBAC(domain.RoleAdmin)

	next := func(c echo.Context) error {
		t.Fatalf("next called without user")
		return nil
	}

	c := rbacContext(e, nil)
	if err := mw(next)(c); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
