package mentor

import (
	"context"

	dommentor "github.com/kailas-cloud/mentordex/internal/domain/mentor"
)

// Directory is the primary mentor store.
type Directory interface {
	UpsertMentor(ctx context.Context, m *dommentor.Mentor, now int64) error
	GetMentor(ctx context.Context, id string) (dommentor.Mentor, error)
	DeleteMentor(ctx context.Context, id string) error
}

// Index is the derived advanced index. Upsert removes unverified mentors.
type Index interface {
	Upsert(ctx context.Context, m *dommentor.Mentor) error
	Delete(ctx context.Context, id string) error
}

// Invalidator drops cached reads that depend on the directory.
type Invalidator interface {
	Invalidate()
}
