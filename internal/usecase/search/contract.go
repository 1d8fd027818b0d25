package search

import (
	"context"

	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

// Directory is the plain field-match path over the primary directory.
// FindMentors and CountMentors must apply one shared predicate.
type Directory interface {
	FindMentors(
		ctx context.Context, text string, filters filter.Expression, offset, limit int,
	) ([]mentor.Mentor, error)
	CountMentors(ctx context.Context, text string, filters filter.Expression) (int, error)
}

// Index is the ranked full-text path over the advanced index.
// Search and Count must apply one shared query.
type Index interface {
	Search(
		ctx context.Context, text string, filters filter.Expression, offset, limit int,
	) ([]mentor.Mentor, error)
	Count(ctx context.Context, text string, filters filter.Expression) (int, error)
}

// Prober checks whether the advanced index can serve text queries right now.
type Prober interface {
	SupportsTextSearch(ctx context.Context) bool
	Probe(ctx context.Context) error
}

// Availability reports whether the advanced plan may be used. It never fails.
type Availability interface {
	Available(ctx context.Context) bool
}
