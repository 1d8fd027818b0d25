package app

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/config"
	dommentor "github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/mentordex/internal/usecase/health"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Config{
		HTTP:        config.HTTPConfig{Port: 8080},
		Directory:   config.DirectoryConfig{DSN: ":memory:"},
		SearchIndex: config.SearchIndexConfig{Driver: config.DriverNone},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	a, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestNew_WithoutIndex(t *testing.T) {
	a := newTestApp(t)

	if a.Index != nil || a.Indexer != nil {
		t.Fatal("driver none must not build an index or indexer")
	}
	if a.Probe.Available(context.Background()) {
		t.Error("probe must report unavailable without an index")
	}

	report := a.Health.Check(context.Background())
	if report.Status != healthuc.Healthy {
		t.Errorf("health = %+v", report)
	}
	if _, ok := report.Checks[healthuc.ComponentSearchIndex]; ok {
		t.Error("search_index check must be absent without an index")
	}
}

func TestNew_SearchFallsBackWithoutIndex(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	if _, err := a.Mentors.Upsert(ctx, dommentor.Attrs{
		ID: "m-1", Name: "Grace Hopper", Title: "Compiler pioneer", Skills: []string{"COBOL"}, Verified: true,
	}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	req, err := request.New(request.Params{Query: "hopper", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	page, err := a.Search.Search(ctx, &req)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if page.AdvancedSearchEnabled() {
		t.Error("expected fallback plan")
	}
	if got := page.Mentors(); len(got) != 1 || got[0].ID() != "m-1" {
		t.Errorf("mentors = %v", got)
	}

	items, err := a.Suggest.Suggest(ctx, "Gr", "mentorName")
	if err != nil || len(items) != 0 {
		t.Errorf("suggest without index = %v, %v; want empty", items, err)
	}

	snap, err := a.Analytics.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap.TotalMentors != 1 {
		t.Errorf("TotalMentors = %d", snap.TotalMentors)
	}
}
