package search

import (
	"context"
	"sync"

	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

// --- Mocks ---

type call struct {
	text    string
	filters filter.Expression
	offset  int
	limit   int
}

type mockBackend struct {
	mu      sync.Mutex
	findFn  func(ctx context.Context, text string, filters filter.Expression, offset, limit int) ([]mentor.Mentor, error)
	countFn func(ctx context.Context, text string, filters filter.Expression) (int, error)
	fetches []call
	counts  []call
}

func (m *mockBackend) fetch(
	ctx context.Context, text string, filters filter.Expression, offset, limit int,
) ([]mentor.Mentor, error) {
	m.mu.Lock()
	m.fetches = append(m.fetches, call{text: text, filters: filters, offset: offset, limit: limit})
	m.mu.Unlock()
	if m.findFn != nil {
		return m.findFn(ctx, text, filters, offset, limit)
	}
	return nil, nil
}

func (m *mockBackend) count(ctx context.Context, text string, filters filter.Expression) (int, error) {
	m.mu.Lock()
	m.counts = append(m.counts, call{text: text, filters: filters})
	m.mu.Unlock()
	if m.countFn != nil {
		return m.countFn(ctx, text, filters)
	}
	return 0, nil
}

func (m *mockBackend) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetches) + len(m.counts)
}

type mockDirectory struct{ mockBackend }

func (m *mockDirectory) FindMentors(
	ctx context.Context, text string, filters filter.Expression, offset, limit int,
) ([]mentor.Mentor, error) {
	return m.fetch(ctx, text, filters, offset, limit)
}

func (m *mockDirectory) CountMentors(ctx context.Context, text string, filters filter.Expression) (int, error) {
	return m.count(ctx, text, filters)
}

type mockIndex struct{ mockBackend }

func (m *mockIndex) Search(
	ctx context.Context, text string, filters filter.Expression, offset, limit int,
) ([]mentor.Mentor, error) {
	return m.fetch(ctx, text, filters, offset, limit)
}

func (m *mockIndex) Count(ctx context.Context, text string, filters filter.Expression) (int, error) {
	return m.count(ctx, text, filters)
}

type stubAvailability struct {
	ok    bool
	calls int
}

func (s *stubAvailability) Available(context.Context) bool {
	s.calls++
	return s.ok
}

type mockProber struct {
	textSearch bool
	probeFn    func(ctx context.Context) error
	probes     int
}

func (m *mockProber) SupportsTextSearch(context.Context) bool { return m.textSearch }

func (m *mockProber) Probe(ctx context.Context) error {
	m.probes++
	if m.probeFn != nil {
		return m.probeFn(ctx)
	}
	return nil
}

func mentors(ids ...string) []mentor.Mentor {
	out := make([]mentor.Mentor, len(ids))
	for i, id := range ids {
		out[i] = mentor.Reconstruct(mentor.Attrs{ID: id, Name: "Mentor " + id, Verified: true})
	}
	return out
}
