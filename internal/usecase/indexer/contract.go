package indexer

import (
	"context"

	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
)

// Source pages through every mentor in the primary directory by ID.
type Source interface {
	ListMentors(ctx context.Context, afterID string, limit int) ([]mentor.Mentor, error)
	GetMentor(ctx context.Context, id string) (mentor.Mentor, error)
}

// Index is the advanced index being rebuilt.
type Index interface {
	EnsureIndex(ctx context.Context) (bool, error)
	DropIndex(ctx context.Context) error
	UpsertBatch(ctx context.Context, ms []mentor.Mentor) (int, error)
	ListIDs(ctx context.Context) ([]string, error)
	DeleteMany(ctx context.Context, ids []string) error
}

// Invalidator drops cached reads that depend on the index or the directory.
type Invalidator interface {
	Invalidate()
}

// Gate keeps searches off an index that is being filled from scratch.
type Gate interface {
	Hold()
	Release()
}
