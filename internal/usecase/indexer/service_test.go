package indexer

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
)

// --- Mocks ---

type mockSource struct {
	mentors []mentor.Mentor // sorted by ID
	err     error
	calls   int

	// late are visible to GetMentor only, as if written after the scan.
	late   map[string]mentor.Mentor
	getErr error
}

func (m *mockSource) GetMentor(_ context.Context, id string) (mentor.Mentor, error) {
	if m.getErr != nil {
		return mentor.Mentor{}, m.getErr
	}
	if mt, ok := m.late[id]; ok {
		return mt, nil
	}
	for _, mt := range m.mentors {
		if mt.ID() == id {
			return mt, nil
		}
	}
	return mentor.Mentor{}, domain.ErrNotFound
}

func (m *mockSource) ListMentors(_ context.Context, afterID string, limit int) ([]mentor.Mentor, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []mentor.Mentor
	for _, mt := range m.mentors {
		if mt.ID() > afterID && len(out) < limit {
			out = append(out, mt)
		}
	}
	return out, nil
}

type mockIndex struct {
	mu         sync.Mutex
	docs       map[string]bool
	created    bool
	ensureErr  error
	upsertErr  error
	dropErr    error
	dropped    int
	batchSizes []int
}

func newMockIndex(existing ...string) *mockIndex {
	m := &mockIndex{docs: make(map[string]bool)}
	for _, id := range existing {
		m.docs[id] = true
	}
	return m
}

func (m *mockIndex) EnsureIndex(context.Context) (bool, error) {
	return m.created, m.ensureErr
}

func (m *mockIndex) DropIndex(context.Context) error {
	m.dropped++
	return m.dropErr
}

func (m *mockIndex) UpsertBatch(_ context.Context, ms []mentor.Mentor) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.batchSizes = append(m.batchSizes, len(ms))
	for i := range ms {
		m.docs[ms[i].ID()] = true
	}
	return len(ms), nil
}

func (m *mockIndex) ListIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockIndex) DeleteMany(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

func (m *mockIndex) ids() string {
	ids, _ := m.ListIDs(context.Background())
	return strings.Join(ids, ",")
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

type recordingGate struct {
	events []string
}

func (g *recordingGate) Hold() { g.events = append(g.events, "hold") }
func (g *recordingGate) Release() { g.events = append(g.events, "release") }

func (g *recordingGate) String() string { return strings.Join(g.events, ",") }

func directory(layout string) []mentor.Mentor {
	// layout: "a+,b-,c+" where + marks verified
	var out []mentor.Mentor
	for _, tok := range strings.Split(layout, ",") {
		id, verified := tok[:len(tok)-1], tok[len(tok)-1] == '+'
		out = append(out, mentor.Reconstruct(mentor.Attrs{ID: id, Name: id, Verified: verified}))
	}
	return out
}

// --- Tests ---

func TestRun_IndexesVerifiedAndRemovesStale(t *testing.T) {
	src := &mockSource{mentors: directory("a+,b-,c+,d+,e-")}
	idx := newMockIndex("b", "z")
	inv1, inv2 := &countingInvalidator{}, &countingInvalidator{}
	svc := New(src, idx, nil, 2, 2, zap.NewNop(), inv1, inv2)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := idx.ids(); got != "a,c,d" {
		t.Errorf("indexed ids = %q, want a,c,d", got)
	}
	if report.Scanned != 5 || report.Indexed != 3 || report.Removed != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
	if inv1.n != 1 || inv2.n != 1 {
		t.Errorf("expected every invalidator called once, got %d/%d", inv1.n, inv2.n)
	}
	for _, n := range idx.batchSizes {
		if n > 2 {
			t.Errorf("batch of %d exceeds batch size", n)
		}
	}
}

func TestRun_EmptyDirectoryClearsIndex(t *testing.T) {
	idx := newMockIndex("x", "y")
	svc := New(&mockSource{}, idx, nil, 0, 0, zap.NewNop())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Removed != 2 || idx.ids() != "" {
		t.Errorf("unexpected result: %+v, ids %q", report, idx.ids())
	}
}

func TestRun_ReportsIndexCreation(t *testing.T) {
	idx := newMockIndex()
	idx.created = true
	report, err := New(&mockSource{}, idx, nil, 10, 1, zap.NewNop()).Run(context.Background())
	if err != nil || !report.IndexCreated {
		t.Fatalf("Run() = %+v, %v", report, err)
	}
}

func TestRun_EnsureIndexFailure(t *testing.T) {
	idx := newMockIndex()
	idx.ensureErr = errors.New("ERR unknown command 'FT.CREATE'")
	src := &mockSource{}

	if _, err := New(src, idx, nil, 10, 1, zap.NewNop()).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if src.calls != 0 {
		t.Error("directory must not be read when the index cannot be created")
	}
}

func TestRun_BatchFailureSkipsCleanup(t *testing.T) {
	idx := newMockIndex("stale")
	idx.upsertErr = errors.New("OOM command not allowed")
	inv := &countingInvalidator{}
	svc := New(&mockSource{mentors: directory("a+,b+")}, idx, nil, 1, 2, zap.NewNop(), inv)

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if idx.ids() != "stale" {
		t.Errorf("cleanup must not run after a failed write, ids %q", idx.ids())
	}
	if inv.n != 0 {
		t.Error("failed run must not invalidate caches")
	}
}

func TestRun_SourceFailure(t *testing.T) {
	src := &mockSource{err: errors.New("database is locked")}
	if _, err := New(src, newMockIndex(), nil, 10, 1, zap.NewNop()).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_KeepsMentorVerifiedAfterScan(t *testing.T) {
	src := &mockSource{
		mentors: directory("a+"),
		late: map[string]mentor.Mentor{
			"late": mentor.Reconstruct(mentor.Attrs{ID: "late", Name: "late", Verified: true}),
		},
	}
	idx := newMockIndex("late", "gone")

	report, err := New(src, idx, nil, 10, 1, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := idx.ids(); got != "a,late" {
		t.Errorf("indexed ids = %q, want a,late", got)
	}
	if report.Removed != 1 {
		t.Errorf("removed = %d, want 1", report.Removed)
	}
}

func TestRun_RecheckFailureKeepsDocuments(t *testing.T) {
	src := &mockSource{mentors: directory("a+"), getErr: errors.New("database is locked")}
	idx := newMockIndex("gone")

	if _, err := New(src, idx, nil, 10, 1, zap.NewNop()).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := idx.ids(); got != "a,gone" {
		t.Errorf("nothing may be removed when the recheck fails, ids %q", got)
	}
}

func TestRun_FreshIndexIsHeldUntilFilled(t *testing.T) {
	idx := newMockIndex()
	idx.created = true
	gate := &recordingGate{}

	if _, err := New(&mockSource{mentors: directory("a+")}, idx, gate, 10, 1, zap.NewNop()).
		Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gate.String() != "hold,release" {
		t.Errorf("gate events = %q", gate)
	}
}

func TestRun_ExistingIndexIsNotHeld(t *testing.T) {
	gate := &recordingGate{}
	if _, err := New(&mockSource{}, newMockIndex(), gate, 10, 1, zap.NewNop()).
		Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gate.events) != 0 {
		t.Errorf("gate events = %q, want none", gate)
	}
}

func TestRun_FailedFillStaysHeld(t *testing.T) {
	idx := newMockIndex()
	idx.created = true
	idx.upsertErr = errors.New("OOM command not allowed")
	gate := &recordingGate{}

	if _, err := New(&mockSource{mentors: directory("a+")}, idx, gate, 10, 1, zap.NewNop()).
		Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if gate.String() != "hold" {
		t.Errorf("gate events = %q, want hold", gate)
	}
}

func TestRebuild_DropsAndRefills(t *testing.T) {
	idx := newMockIndex("a", "stale")
	idx.created = true
	gate := &recordingGate{}
	inv := &countingInvalidator{}
	svc := New(&mockSource{mentors: directory("a+,b+")}, idx, gate, 10, 1, zap.NewNop(), inv)

	report, err := svc.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.dropped != 1 || !report.Recreated || !report.IndexCreated {
		t.Errorf("unexpected rebuild: dropped %d, report %+v", idx.dropped, report)
	}
	if got := idx.ids(); got != "a,b" {
		t.Errorf("indexed ids = %q, want a,b", got)
	}
	if gate.String() != "hold,release" || inv.n != 1 {
		t.Errorf("gate events = %q, invalidations = %d", gate, inv.n)
	}
}

func TestRebuild_DropFailure(t *testing.T) {
	idx := newMockIndex()
	idx.dropErr = errors.New("NOPERM")
	gate := &recordingGate{}
	src := &mockSource{}

	if _, err := New(src, idx, gate, 10, 1, zap.NewNop()).Rebuild(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if src.calls != 0 {
		t.Error("directory must not be read when the drop fails")
	}
	if gate.String() != "hold,release" {
		t.Errorf("gate events = %q", gate)
	}
}
