package ports

import (
	"context"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

// DocumentStore enumerates and loads documents from a directory. Every call
// hits the filesystem again — content reflects the directory at query time,
// and edits are visible on the next request without any invalidation step.
type DocumentStore interface {
	List(ctx context.Context) ([]domain.DocumentInfo, error)
	Load(ctx context.Context, name string) (*domain.Document, error)
	// LoadAll returns every listed document with its extracted text. Files
	// whose extraction fails are skipped with a warning, never fatally.
	LoadAll(ctx context.Context) ([]domain.Document, error)
}
