// Package indexer rebuilds the advanced index from the primary directory.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/metrics"
)

// Defaults for a reindex run.
const (
	DefaultBatchSize = 100
	DefaultWorkers   = 4
)

// Report summarizes one reindex run.
type Report struct {
	Recreated    bool
	IndexCreated bool
	Scanned      int
	Indexed      int
	Removed      int
	Duration     time.Duration
}

// Service copies verified mentors into the advanced index and removes stale documents.
type Service struct {
	source     Source
	index      Index
	gate       Gate
	invalidate []Invalidator
	batchSize  int
	workers    int
	logger     *zap.Logger
}

// New creates an indexer. gate may be nil.
// Non-positive batchSize and workers fall back to the defaults.
func New(
	source Source, index Index, gate Gate, batchSize, workers int, logger *zap.Logger, invalidate ...Invalidator,
) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Service{
		source:     source,
		index:      index,
		gate:       gate,
		invalidate: invalidate,
		batchSize:  batchSize,
		workers:    workers,
		logger:     logger,
	}
}

// Rebuild drops the index definition and runs a full reindex into a fresh one.
// Documents survive the drop; searches are held off until the run succeeds.
func (s *Service) Rebuild(ctx context.Context) (Report, error) {
	s.hold()
	if err := s.index.DropIndex(ctx); err != nil {
		s.release()
		return Report{}, fmt.Errorf("drop index: %w", err)
	}
	s.logger.Info("Index dropped for rebuild")

	report, err := s.run(ctx, true)
	report.Recreated = true
	return report, err
}

// Run performs a full reindex. Batches are written by a bounded worker pool;
// the first failed batch fails the run, but documents already written stay.
// A freshly created index is held off searches until the run succeeds.
func (s *Service) Run(ctx context.Context) (Report, error) {
	return s.run(ctx, false)
}

func (s *Service) run(ctx context.Context, held bool) (Report, error) {
	start := time.Now()
	var report Report

	created, err := s.index.EnsureIndex(ctx)
	if err != nil {
		if held {
			s.release()
		}
		return report, fmt.Errorf("ensure index: %w", err)
	}
	report.IndexCreated = created
	if created && !held {
		s.hold()
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		indexed  atomic.Int64
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	keep := make(map[string]struct{})
	after := ""
	for {
		batch, err := s.source.ListMentors(ctx, after, s.batchSize)
		if err != nil {
			fail(fmt.Errorf("list mentors after %q: %w", after, err))
			break
		}
		if len(batch) == 0 {
			break
		}
		report.Scanned += len(batch)
		after = batch[len(batch)-1].ID()

		verified := make([]mentor.Mentor, 0, len(batch))
		for i := range batch {
			if batch[i].Verified() {
				keep[batch[i].ID()] = struct{}{}
				verified = append(verified, batch[i])
			}
		}
		if len(verified) > 0 {
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				n, err := s.index.UpsertBatch(ctx, verified)
				if err != nil {
					fail(fmt.Errorf("write batch ending at %s: %w", verified[len(verified)-1].ID(), err))
					return
				}
				indexed.Add(int64(n))
			}); err != nil {
				wg.Done()
				fail(fmt.Errorf("submit batch: %w", err))
				break
			}
		}
		if len(batch) < s.batchSize {
			break
		}
	}
	wg.Wait()

	report.Indexed = int(indexed.Load())
	metrics.IndexerDocumentsTotal.WithLabelValues("upsert").Add(float64(report.Indexed))
	if firstErr != nil {
		return report, firstErr
	}

	removed, err := s.removeStale(ctx, keep)
	report.Removed = removed
	if err != nil {
		return report, err
	}

	if created || held {
		s.release()
	}
	for _, inv := range s.invalidate {
		inv.Invalidate()
	}

	report.Duration = time.Since(start)
	metrics.IndexerRunDuration.Observe(report.Duration.Seconds())
	s.logger.Info("Reindex completed",
		zap.Bool("recreated", held),
		zap.Bool("index_created", report.IndexCreated),
		zap.Int("scanned", report.Scanned),
		zap.Int("indexed", report.Indexed),
		zap.Int("removed", report.Removed),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// removeStale deletes documents of mentors that are gone or no longer verified.
// Candidates are re-read from the directory first: a mentor verified after its
// page was scanned has already been written through and must stay.
func (s *Service) removeStale(ctx context.Context, keep map[string]struct{}) (int, error) {
	ids, err := s.index.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list indexed mentors: %w", err)
	}
	var stale []string
	for _, id := range ids {
		if _, ok := keep[id]; ok {
			continue
		}
		m, err := s.source.GetMentor(ctx, id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return 0, fmt.Errorf("recheck mentor %s: %w", id, err)
		case m.Verified():
			continue
		}
		stale = append(stale, id)
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := s.index.DeleteMany(ctx, stale); err != nil {
		return 0, fmt.Errorf("remove %d stale documents: %w", len(stale), err)
	}
	metrics.IndexerDocumentsTotal.WithLabelValues("delete").Add(float64(len(stale)))
	return len(stale), nil
}

func (s *Service) hold() {
	if s.gate != nil {
		s.gate.Hold()
	}
}

func (s *Service) release() {
	if s.gate != nil {
		s.gate.Release()
	}
}
