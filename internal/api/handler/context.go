package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/supportdesk/knowledge-helper/internal/api/middleware"
	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

// ctxIdentity extracts the session and user injected by the Auth middleware
// and fast-fails before any service call when either is missing — their
// presence proves the middleware ran.
func ctxIdentity(c echo.Context) (*domain.Session, *domain.User, error) {
	session, _ := c.Get(middleware.ContextSession).(*domain.Session)
	user, _ := c.Get(middleware.ContextUser).(*domain.User)
	if session == nil || user == nil {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return session, user, nil
}
