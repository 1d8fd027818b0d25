package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	domanalytics "github.com/kailas-cloud/mentordex/internal/domain/analytics"
	dommentor "github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
	"github.com/kailas-cloud/mentordex/internal/domain/search/result"
	domsuggest "github.com/kailas-cloud/mentordex/internal/domain/suggest"
	globaluc "github.com/kailas-cloud/mentordex/internal/usecase/global"
	healthuc "github.com/kailas-cloud/mentordex/internal/usecase/health"
)

type fakeSearcher struct {
	fn func(ctx context.Context, req *request.Request) (result.Page, error)
}

func (f *fakeSearcher) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	return f.fn(ctx, req)
}

type fakeMentors struct {
	fn func(ctx context.Context, id string) (dommentor.Mentor, error)
}

func (f *fakeMentors) Get(ctx context.Context, id string) (dommentor.Mentor, error) {
	return f.fn(ctx, id)
}

type fakeSuggester struct {
	fn func(ctx context.Context, prefix string, kind domsuggest.Kind) ([]domsuggest.Item, error)
}

func (f *fakeSuggester) Suggest(ctx context.Context, prefix string, kind domsuggest.Kind) ([]domsuggest.Item, error) {
	return f.fn(ctx, prefix, kind)
}

type fakeAnalytics struct {
	fn func(ctx context.Context) (domanalytics.Snapshot, error)
}

func (f *fakeAnalytics) Snapshot(ctx context.Context) (domanalytics.Snapshot, error) {
	return f.fn(ctx)
}

type fakeGlobal struct {
	fn func(ctx context.Context, query string, page, limit int) (globaluc.Result, error)
}

func (f *fakeGlobal) Search(ctx context.Context, query string, page, limit int) (globaluc.Result, error) {
	return f.fn(ctx, query, page, limit)
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(context.Context) healthuc.Report { return f.report }

func newTestServices() Services {
	return Services{
		Search: &fakeSearcher{fn: func(context.Context, *request.Request) (result.Page, error) {
			return result.New(nil, result.NewPagination(1, 10, 0), false), nil
		}},
		Mentors: &fakeMentors{fn: func(context.Context, string) (dommentor.Mentor, error) {
			return dommentor.Mentor{}, nil
		}},
		Suggest: &fakeSuggester{fn: func(context.Context, string, domsuggest.Kind) ([]domsuggest.Item, error) {
			return []domsuggest.Item{}, nil
		}},
		Analytics: &fakeAnalytics{fn: func(context.Context) (domanalytics.Snapshot, error) {
			return domanalytics.Snapshot{}, nil
		}},
		Global: &fakeGlobal{fn: func(_ context.Context, _ string, page, limit int) (globaluc.Result, error) {
			return globaluc.Result{Pagination: result.NewPagination(page, limit, 0)}, nil
		}},
		Health: &fakeHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{healthuc.ComponentDirectory: healthuc.CheckOK},
		}},
	}
}

func newTestHandler(svc Services) http.Handler {
	return NewServer(svc, Limits{DefaultLimit: 10, MaxLimit: 50}, zap.NewNop()).Handler(nil)
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func testMentor(t *testing.T, id, name string) dommentor.Mentor {
	t.Helper()
	m, err := dommentor.New(dommentor.Attrs{
		ID:              id,
		Name:            name,
		Title:           "Engineer",
		Skills:          []string{"Go"},
		ExperienceYears: 5,
		HourlyRate:      80,
		Verified:        true,
		CreatedAt:       1700000000000,
	})
	if err != nil {
		t.Fatalf("build mentor: %v", err)
	}
	return m
}
