package global

import (
	"context"

	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
	"github.com/kailas-cloud/mentordex/internal/domain/search/result"
	"github.com/kailas-cloud/mentordex/internal/domain/session"
	"github.com/kailas-cloud/mentordex/internal/domain/user"
)

// MentorSearcher runs the mentor search (advanced or fallback plan).
type MentorSearcher interface {
	Search(ctx context.Context, req *request.Request) (result.Page, error)
}

// People searches users and sessions by case-insensitive substring.
type People interface {
	SearchUsers(ctx context.Context, text string, offset, limit int) ([]user.User, error)
	CountUsers(ctx context.Context, text string) (int, error)
	SearchSessions(ctx context.Context, text string, offset, limit int) ([]session.Session, error)
	CountSessions(ctx context.Context, text string) (int, error)
}
