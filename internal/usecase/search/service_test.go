package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
)

func newRequest(t *testing.T, p request.Params) *request.Request {
	t.Helper()
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = 10
	}
	r, err := request.New(p)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func TestSearch_BrowseNeverProbes(t *testing.T) {
	dir := &mockDirectory{}
	dir.countFn = func(context.Context, string, filter.Expression) (int, error) { return 2, nil }
	dir.findFn = func(context.Context, string, filter.Expression, int, int) ([]mentor.Mentor, error) {
		return mentors("a", "b"), nil
	}
	idx := &mockIndex{}
	probe := &stubAvailability{ok: true}
	svc := New(dir, idx, probe, zap.NewNop())

	page, err := svc.Search(context.Background(), newRequest(t, request.Params{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if probe.calls != 0 {
		t.Errorf("browse must not probe, got %d probes", probe.calls)
	}
	if idx.calls() != 0 {
		t.Error("browse must not touch the advanced index")
	}
	if page.AdvancedSearchEnabled() {
		t.Error("expected fallback plan")
	}
	if len(page.Mentors()) != 2 || page.Pagination().Total != 2 {
		t.Errorf("unexpected page: %d mentors, total %d", len(page.Mentors()), page.Pagination().Total)
	}
}

func TestSearch_AdvancedWhenAvailable(t *testing.T) {
	dir := &mockDirectory{}
	idx := &mockIndex{}
	idx.findFn = func(context.Context, string, filter.Expression, int, int) ([]mentor.Mentor, error) {
		return mentors("x"), nil
	}
	idx.countFn = func(context.Context, string, filter.Expression) (int, error) { return 21, nil }
	svc := New(dir, idx, &stubAvailability{ok: true}, zap.NewNop())

	page, err := svc.Search(context.Background(), newRequest(t, request.Params{Query: "software", Page: 3, Limit: 10}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.AdvancedSearchEnabled() {
		t.Error("expected advanced plan")
	}
	if dir.calls() != 0 {
		t.Error("advanced plan must not touch the directory")
	}
	if idx.fetches[0].offset != 20 || idx.fetches[0].limit != 10 {
		t.Errorf("unexpected paging: %+v", idx.fetches[0])
	}
	p := page.Pagination()
	if p.Total != 21 || p.TotalPages != 3 || p.HasNext || !p.HasPrev {
		t.Errorf("unexpected pagination: %+v", p)
	}
}

func TestSearch_FallbackWhenUnavailable(t *testing.T) {
	dir := &mockDirectory{}
	dir.findFn = func(context.Context, string, filter.Expression, int, int) ([]mentor.Mentor, error) {
		return mentors("s1"), nil
	}
	dir.countFn = func(context.Context, string, filter.Expression) (int, error) { return 1, nil }
	idx := &mockIndex{}
	svc := New(dir, idx, &stubAvailability{ok: false}, zap.NewNop())

	page, err := svc.Search(context.Background(), newRequest(t, request.Params{Query: "software"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.AdvancedSearchEnabled() {
		t.Error("expected advancedSearchEnabled=false")
	}
	if idx.calls() != 0 {
		t.Error("unavailable index must not be queried")
	}
	if dir.fetches[0].text != "software" {
		t.Errorf("fallback must carry the text, got %q", dir.fetches[0].text)
	}
}

func TestSearch_NoIndexConfigured(t *testing.T) {
	dir := &mockDirectory{}
	svc := New(dir, nil, nil, zap.NewNop())

	page, err := svc.Search(context.Background(), newRequest(t, request.Params{Query: "go"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.AdvancedSearchEnabled() {
		t.Error("expected fallback plan")
	}
	if page.Mentors() == nil {
		t.Error("mentors must never be nil")
	}
}

func TestSearch_FetchAndCountShareInputs(t *testing.T) {
	for _, available := range []bool{true, false} {
		dir := &mockDirectory{}
		idx := &mockIndex{}
		svc := New(dir, idx, &stubAvailability{ok: available}, zap.NewNop())
		minExp := 5.0
		req := newRequest(t, request.Params{Query: "data", Skills: []string{"SQL"}, MinExperience: &minExp})

		if _, err := svc.Search(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b := &dir.mockBackend
		if available {
			b = &idx.mockBackend
		}
		if len(b.fetches) != 1 || len(b.counts) != 1 {
			t.Fatalf("available=%v: expected one fetch and one count, got %d/%d", available, len(b.fetches), len(b.counts))
		}
		f, c := b.fetches[0], b.counts[0]
		if f.text != c.text || len(f.filters.Conditions()) != len(c.filters.Conditions()) {
			t.Errorf("available=%v: fetch %+v and count %+v diverge", available, f, c)
		}
	}
}

func TestSearch_CountFailureFailsWholeCall(t *testing.T) {
	dir := &mockDirectory{}
	dir.findFn = func(context.Context, string, filter.Expression, int, int) ([]mentor.Mentor, error) {
		return mentors("a"), nil
	}
	dir.countFn = func(context.Context, string, filter.Expression) (int, error) {
		return 0, errors.New("disk I/O error")
	}
	svc := New(dir, nil, nil, zap.NewNop())

	page, err := svc.Search(context.Background(), newRequest(t, request.Params{}))
	if !errors.Is(err, domain.ErrStoreFailure) {
		t.Fatalf("err = %v, want ErrStoreFailure", err)
	}
	if len(page.Mentors()) != 0 {
		t.Error("partial results must not be returned")
	}
}

func TestSearch_AdvancedFetchFailureSurfaces(t *testing.T) {
	idx := &mockIndex{}
	idx.findFn = func(context.Context, string, filter.Expression, int, int) ([]mentor.Mentor, error) {
		return nil, fmt.Errorf("%w: aggregate: timeout", domain.ErrStoreFailure)
	}
	svc := New(&mockDirectory{}, idx, &stubAvailability{ok: true}, zap.NewNop())

	_, err := svc.Search(context.Background(), newRequest(t, request.Params{Query: "go"}))
	if !errors.Is(err, domain.ErrStoreFailure) {
		t.Fatalf("err = %v, want ErrStoreFailure", err)
	}
}

func TestSearch_PageBeyondEnd(t *testing.T) {
	dir := &mockDirectory{}
	dir.countFn = func(context.Context, string, filter.Expression) (int, error) { return 12, nil }
	svc := New(dir, nil, nil, zap.NewNop())

	page, err := svc.Search(context.Background(), newRequest(t, request.Params{Page: 5, Limit: 10}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := page.Pagination()
	if len(page.Mentors()) != 0 || p.Total != 12 || p.TotalPages != 2 || p.HasNext || !p.HasPrev {
		t.Errorf("unexpected page: %d mentors, %+v", len(page.Mentors()), p)
	}
}
