package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

// AuthService implements login, logout and cookie-token resolution. The
// cookie value is a signed JWT carrying only the session ID; the session
// itself lives server-side, so a process restart invalidates every token.
type AuthService struct {
	credentials ports.CredentialStore
	sessions    ports.SessionStore
	jwtSecret   string
	tokenTTL    time.Duration
	logger      zerolog.Logger
}

func NewAuthService(credentials ports.CredentialStore, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		credentials: credentials,
		sessions:    sessions,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.credentials.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(session.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("department", user.Department).Msg("user logged in")

	return &ports.LoginResult{Token: token, Session: session, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// ResolveToken verifies the JWT signature and expiry, then resolves the
// embedded session ID against the in-memory store.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, nil, domain.ErrInvalidSession
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, nil, domain.ErrInvalidSession
	}

	session, err := s.sessions.Resolve(ctx, sid)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.credentials.Lookup(ctx, session.Username)
	if err != nil {
		// Registry reloaded underneath an active session.
		return nil, nil, domain.ErrInvalidSession
	}

	return session, user, nil
}

func (s *AuthService) signToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
