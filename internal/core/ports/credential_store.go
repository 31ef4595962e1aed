package ports

import (
	"context"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

// CredentialStore is the flat-file user registry. Read-only at runtime;
// Reload re-reads the backing file only when explicitly triggered.
type CredentialStore interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Lookup(ctx context.Context, username string) (*domain.User, error)
	Reload(ctx context.Context) error
}
