// Package search runs mentor discovery: it picks the advanced or fallback plan,
// fetches one page and its total concurrently, and assembles a result page.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
	"github.com/kailas-cloud/mentordex/internal/domain/search/result"
	"github.com/kailas-cloud/mentordex/internal/metrics"
)

var tracer = otel.Tracer("mentordex/search")

// Service handles mentor search across the advanced and fallback plans.
type Service struct {
	probe    Availability
	advanced SearchStrategy
	fallback SearchStrategy
	logger   *zap.Logger
}

// New creates a search service. index may be nil, in which case every search
// runs the fallback plan.
func New(dir Directory, index Index, probe Availability, logger *zap.Logger) *Service {
	s := &Service{
		probe:    probe,
		fallback: fallbackStrategy{dir: dir},
		logger:   logger,
	}
	if index != nil {
		s.advanced = advancedStrategy{index: index}
	}
	return s
}

// Search executes a validated request. Either the whole page with a consistent
// total is returned, or an error wrapping domain.ErrStoreFailure.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	ctx, span := tracer.Start(ctx, "search.Mentors", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	plan := s.strategy(ctx, req).Plan(req)
	span.SetAttributes(
		attribute.String("plan", plan.Name),
		attribute.Int("page", req.Page()),
		attribute.Int("limit", req.Limit()),
		attribute.Bool("has_text", req.HasText()),
	)

	start := time.Now()
	var (
		mentors []mentor.Mentor
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mentors, err = plan.Fetch(gctx, req.Offset(), req.Limit())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = plan.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		if !errors.Is(err, domain.ErrStoreFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		return result.Page{}, fmt.Errorf("%s search: %w", plan.Name, err)
	}

	metrics.SearchPlansTotal.WithLabelValues(plan.Name).Inc()
	metrics.SearchDuration.WithLabelValues(plan.Name).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("total", total), attribute.Int("returned", len(mentors)))
	span.SetStatus(codes.Ok, "search completed")

	return result.New(mentors, result.NewPagination(req.Page(), req.Limit(), total), plan.Advanced), nil
}

// strategy picks the advanced plan only for free text with a live index.
// Browse requests never probe.
func (s *Service) strategy(ctx context.Context, req *request.Request) SearchStrategy {
	if !req.HasText() || s.advanced == nil || s.probe == nil {
		return s.fallback
	}
	if !s.probe.Available(ctx) {
		s.logger.Debug("Advanced search unavailable, using fallback plan")
		return s.fallback
	}
	return s.advanced
}
