package ports

import (
	"context"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

// LoginResult carries the signed cookie token alongside the session and user.
type LoginResult struct {
	Token   string
	Session *domain.Session
	User    *domain.User
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	// ResolveToken verifies a cookie token and resolves its server-side session.
	ResolveToken(ctx context.Context, token string) (*domain.Session, *domain.User, error)
}
