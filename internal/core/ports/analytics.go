package ports

import (
	"context"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

// AnalyticsRecorder owns the append-only interaction log. Aggregate computes
// the report from the full accumulated record set on every call.
type AnalyticsRecorder interface {
	Record(ctx context.Context, record domain.InteractionRecord) error
	Aggregate(ctx context.Context) (*domain.UsageReport, error)
}
