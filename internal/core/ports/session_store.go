package ports

import (
	"context"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

// SessionStore keeps sessions in process memory, keyed by an opaque ID.
// Resolve refreshes the idle-expiry clock; an expired or unknown ID fails
// with domain.ErrInvalidSession.
type SessionStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.Session, error)
	Resolve(ctx context.Context, id string) (*domain.Session, error)
	AppendTurn(ctx context.Context, id string, turn domain.Turn) error
	// Reset clears the transcript but retains the identity binding.
	Reset(ctx context.Context, id string) error
	Destroy(ctx context.Context, id string) error
	// Active reports the number of live (unexpired) sessions.
	Active() int
}
