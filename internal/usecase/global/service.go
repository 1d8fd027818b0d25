// Package global fans one query out to mentors, users and sessions and merges their pagination.
package global

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
	"github.com/kailas-cloud/mentordex/internal/domain/search/result"
	"github.com/kailas-cloud/mentordex/internal/domain/session"
	"github.com/kailas-cloud/mentordex/internal/domain/user"
)

var tracer = otel.Tracer("mentordex/search")

// MinQueryLength is the shortest trimmed query that reaches any backend.
const MinQueryLength = 2

// Result is the merged global search response.
type Result struct {
	Mentors    []mentor.Mentor
	Users      []user.User
	Sessions   []session.Session
	Pagination result.Pagination
}

// Service runs the global search fan-out.
type Service struct {
	mentors MentorSearcher
	people  People
}

// New creates a global search service.
func New(mentors MentorSearcher, people People) *Service {
	return &Service{mentors: mentors, people: people}
}

// Search queries all three targets in parallel. total is the sum of the three
// totals and totalPages the largest of them. A query shorter than
// MinQueryLength returns empty lists without touching any backend, before
// paging is validated.
func (s *Service) Search(ctx context.Context, query string, page, limit int) (Result, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength {
		return emptyResult(page, limit), nil
	}
	req, err := request.New(request.Params{Query: query, Page: page, Limit: limit})
	if err != nil {
		return Result{}, fmt.Errorf("global search: %w", err)
	}
	if utf8.RuneCountInString(req.Text()) < MinQueryLength {
		return emptyResult(req.Page(), req.Limit()), nil
	}

	ctx, span := tracer.Start(ctx, "search.Global", trace.WithAttributes(
		attribute.Int("page", req.Page()),
		attribute.Int("limit", req.Limit()),
	))
	defer span.End()

	text, offset, size := req.Text(), req.Offset(), req.Limit()
	var (
		mentorPage    result.Page
		users         []user.User
		sessions      []session.Session
		nUsers, nSess int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mentorPage, err = s.mentors.Search(gctx, &req)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.people.SearchUsers(gctx, text, offset, size)
		return err
	})
	g.Go(func() error {
		var err error
		nUsers, err = s.people.CountUsers(gctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.people.SearchSessions(gctx, text, offset, size)
		return err
	})
	g.Go(func() error {
		var err error
		nSess, err = s.people.CountSessions(gctx, text)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "global search failed")
		if !errors.Is(err, domain.ErrStoreFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		return Result{}, fmt.Errorf("global search: %w", err)
	}

	parts := []result.Pagination{
		mentorPage.Pagination(),
		result.NewPagination(req.Page(), size, nUsers),
		result.NewPagination(req.Page(), size, nSess),
	}
	merged := merge(req.Page(), size, parts)
	span.SetAttributes(attribute.Int("total", merged.Total))
	return Result{
		Mentors:    mentorPage.Mentors(),
		Users:      nonNil(users),
		Sessions:   nonNil(sessions),
		Pagination: merged,
	}, nil
}

func merge(page, limit int, parts []result.Pagination) result.Pagination {
	p := result.Pagination{Page: page, Limit: limit, HasPrev: page > 1}
	for _, part := range parts {
		p.Total += part.Total
		p.TotalPages = max(p.TotalPages, part.TotalPages)
	}
	p.HasNext = page < p.TotalPages
	return p
}

// emptyResult answers a short query; out-of-range paging falls back to the defaults.
func emptyResult(page, limit int) Result {
	if page < 1 {
		page = request.DefaultPage
	}
	if limit < 1 {
		limit = request.DefaultLimit
	}
	limit = min(limit, request.MaxLimit)
	return Result{
		Mentors:    []mentor.Mentor{},
		Users:      []user.User{},
		Sessions:   []session.Session{},
		Pagination: merge(page, limit, nil),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
