package suggest

import (
	"context"

	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
	domsuggest "github.com/kailas-cloud/mentordex/internal/domain/suggest"
)

// Index completes prefixes over verified mentors in the advanced index.
type Index interface {
	SuggestNames(ctx context.Context, prefix string, limit int) ([]domsuggest.Item, error)
	SuggestValues(ctx context.Context, field filter.Field, prefix string, limit int) ([]domsuggest.Item, error)
}

// Availability reports whether the advanced index can serve queries right now.
type Availability interface {
	Available(ctx context.Context) bool
}
