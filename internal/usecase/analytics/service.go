// Package analytics builds the directory-wide facet and range snapshot used by filter panels.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/mentordex/internal/cache"
	"github.com/kailas-cloud/mentordex/internal/domain"
	domanalytics "github.com/kailas-cloud/mentordex/internal/domain/analytics"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
	"github.com/kailas-cloud/mentordex/internal/metrics"
)

const snapshotKey = "snapshot"

// Service computes analytics snapshots, optionally cached for a short TTL.
type Service struct {
	agg   Aggregator
	cache *cache.TTL[string, domanalytics.Snapshot]
}

// New creates an analytics service. ttl 0 computes every snapshot fresh.
func New(agg Aggregator, ttl time.Duration) *Service {
	return &Service{agg: agg, cache: cache.New[string, domanalytics.Snapshot](1, ttl)}
}

// Snapshot returns the facet and range summary over all verified mentors.
func (s *Service) Snapshot(ctx context.Context) (domanalytics.Snapshot, error) {
	if snap, ok := s.cache.Get(snapshotKey); ok {
		metrics.AnalyticsCacheTotal.WithLabelValues("hit").Inc()
		return snap, nil
	}
	if s.cache.Enabled() {
		metrics.AnalyticsCacheTotal.WithLabelValues("miss").Inc()
	}

	var snap domanalytics.Snapshot
	var expertise, skills, help []domanalytics.Facet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.agg.Summary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expertise, err = s.agg.Facets(gctx, filter.FieldExpertiseAreas, domanalytics.ExpertiseAreaFacetLimit)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = s.agg.Facets(gctx, filter.FieldSkills, domanalytics.SkillFacetLimit)
		return err
	})
	g.Go(func() error {
		var err error
		help, err = s.agg.Facets(gctx, filter.FieldHelpAreas, domanalytics.HelpAreaFacetLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, domain.ErrStoreFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		return domanalytics.Snapshot{}, fmt.Errorf("analytics: %w", err)
	}

	snap.ExpertiseAreas = nonNil(expertise)
	snap.Skills = nonNil(skills)
	snap.HelpAreas = nonNil(help)

	s.cache.Set(snapshotKey, snap)
	return snap, nil
}

// Invalidate drops the cached snapshot. Called after directory writes.
func (s *Service) Invalidate() {
	s.cache.Invalidate()
}

func nonNil(f []domanalytics.Facet) []domanalytics.Facet {
	if f == nil {
		return []domanalytics.Facet{}
	}
	return f
}
