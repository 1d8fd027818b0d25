package chi

import (
	"context"

	domanalytics "github.com/kailas-cloud/mentordex/internal/domain/analytics"
	dommentor "github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
	"github.com/kailas-cloud/mentordex/internal/domain/search/result"
	domsuggest "github.com/kailas-cloud/mentordex/internal/domain/suggest"
	globaluc "github.com/kailas-cloud/mentordex/internal/usecase/global"
	healthuc "github.com/kailas-cloud/mentordex/internal/usecase/health"
)

// MentorSearcher runs a mentor search.
type MentorSearcher interface {
	Search(ctx context.Context, req *request.Request) (result.Page, error)
}

// MentorReader loads a single mentor.
type MentorReader interface {
	Get(ctx context.Context, id string) (dommentor.Mentor, error)
}

// Suggester completes a prefix.
type Suggester interface {
	Suggest(ctx context.Context, prefix string, kind domsuggest.Kind) ([]domsuggest.Item, error)
}

// AnalyticsReader returns the directory facet summary.
type AnalyticsReader interface {
	Snapshot(ctx context.Context) (domanalytics.Snapshot, error)
}

// GlobalSearcher searches mentors, users and sessions at once.
type GlobalSearcher interface {
	Search(ctx context.Context, query string, page, limit int) (globaluc.Result, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Services groups the use cases behind the HTTP API.
type Services struct {
	Search    MentorSearcher
	Mentors   MentorReader
	Suggest   Suggester
	Analytics AnalyticsReader
	Global    GlobalSearcher
	Health    HealthChecker
}
