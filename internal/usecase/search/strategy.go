package search

import (
	"context"

	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
)

// Plan names.
const (
	PlanAdvanced = "advanced"
	PlanFallback = "fallback"
)

// ExecutablePlan is a bound search: Fetch reads one page, Count reads the
// pre-pagination total under the same predicate.
type ExecutablePlan struct {
	Name     string
	Advanced bool
	Fetch    func(ctx context.Context, offset, limit int) ([]mentor.Mentor, error)
	Count    func(ctx context.Context) (int, error)
}

// SearchStrategy turns a validated request into an executable plan.
type SearchStrategy interface {
	Plan(req *request.Request) ExecutablePlan
}

// advancedStrategy ranks by relevance then recency over the advanced index.
type advancedStrategy struct {
	index Index
}

func (s advancedStrategy) Plan(req *request.Request) ExecutablePlan {
	text, filters := req.Text(), req.Filters()
	return ExecutablePlan{
		Name:     PlanAdvanced,
		Advanced: true,
		Fetch: func(ctx context.Context, offset, limit int) ([]mentor.Mentor, error) {
			return s.index.Search(ctx, text, filters, offset, limit)
		},
		Count: func(ctx context.Context) (int, error) {
			return s.index.Count(ctx, text, filters)
		},
	}
}

// fallbackStrategy filters with case-insensitive substring matching, newest first.
type fallbackStrategy struct {
	dir Directory
}

func (s fallbackStrategy) Plan(req *request.Request) ExecutablePlan {
	text, filters := req.Text(), req.Filters()
	return ExecutablePlan{
		Name: PlanFallback,
		Fetch: func(ctx context.Context, offset, limit int) ([]mentor.Mentor, error) {
			return s.dir.FindMentors(ctx, text, filters, offset, limit)
		},
		Count: func(ctx context.Context) (int, error) {
			return s.dir.CountMentors(ctx, text, filters)
		},
	}
}
