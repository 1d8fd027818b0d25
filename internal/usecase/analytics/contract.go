package analytics

import (
	"context"

	domanalytics "github.com/kailas-cloud/mentordex/internal/domain/analytics"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

// Aggregator computes facet counts and numeric ranges over verified mentors.
type Aggregator interface {
	Summary(ctx context.Context) (domanalytics.Snapshot, error)
	Facets(ctx context.Context, field filter.Field, limit int) ([]domanalytics.Facet, error)
}
