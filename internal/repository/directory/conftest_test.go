package directory

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/mentordex/internal/db/sqlite"
	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

// newTestRepo returns a repository over a migrated in-memory database.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

// seed inserts a mentor; created doubles as a deterministic creation timestamp.
func seed(t *testing.T, r *Repo, a mentor.Attrs) {
	t.Helper()
	if a.Name == "" {
		a.Name = "Mentor " + a.ID
	}
	m, err := mentor.New(a)
	if err != nil {
		t.Fatalf("mentor %s: %v", a.ID, err)
	}
	if err := r.UpsertMentor(context.Background(), &m, 1); err != nil {
		t.Fatalf("upsert %s: %v", a.ID, err)
	}
}

func seedMany(t *testing.T, r *Repo, n int, verified bool, base int64, mutate func(i int, a *mentor.Attrs)) {
	t.Helper()
	for i := 0; i < n; i++ {
		a := mentor.Attrs{
			ID:        fmt.Sprintf("m-%t-%02d", verified, i),
			Verified:  verified,
			CreatedAt: base + int64(i),
		}
		if mutate != nil {
			mutate(i, &a)
		}
		seed(t, r, a)
	}
}

func anyOf(t *testing.T, field filter.Field, values ...string) filter.Expression {
	t.Helper()
	c, err := filter.NewAnyOf(field, values...)
	if err != nil {
		t.Fatalf("anyOf: %v", err)
	}
	e, err := filter.NewExpression(c)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	return e
}

func ids(ms []mentor.Mentor) []string {
	out := make([]string, len(ms))
	for i := range ms {
		out[i] = ms[i].ID()
	}
	return out
}
