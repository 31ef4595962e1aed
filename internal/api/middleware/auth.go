package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

// SessionCookie is the name of the HttpOnly cookie carrying the signed token.
const SessionCookie = "session_token"

const (
	// ContextSession and ContextUser are the echo context keys the Auth
	// middleware populates for downstream handlers.
	ContextSession = "session"
	ContextUser    = "user"
)

// Auth resolves the session cookie and injects the session and user into the
// request context. A missing, tampered, expired or post-restart token fails
// with ErrInvalidSession so the client redirects to login.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return domain.ErrInvalidSession
			}

			session, user, err := auth.ResolveToken(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}

			c.Set(ContextSession, session)
			c.Set(ContextUser, user)
			return next(c)
		}
	}
}
