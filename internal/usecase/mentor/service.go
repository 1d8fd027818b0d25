// Package mentor is the write path that populates the mentor directory and keeps
// the advanced index in step with it.
package mentor

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/domain"
	dommentor "github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/metrics"
)

// Rejection describes one record refused by Import.
type Rejection struct {
	Index  int
	ID     string
	Reason string
}

// ImportReport summarizes an Import call.
type ImportReport struct {
	Imported int
	Rejected []Rejection
}

// Service validates, sanitizes and stores mentor records.
type Service struct {
	dir        Directory
	index      Index
	invalidate Invalidator
	policy     *bluemonday.Policy
	now        func() time.Time
	logger     *zap.Logger
}

// New creates a mentor service. index and invalidate may be nil.
func New(dir Directory, index Index, invalidate Invalidator, logger *zap.Logger) *Service {
	return &Service{
		dir:        dir,
		index:      index,
		invalidate: invalidate,
		policy:     bluemonday.StrictPolicy(),
		now:        time.Now,
		logger:     logger,
	}
}

// Upsert validates and stores one mentor, then pushes it to the advanced index.
// Validation errors wrap domain.ErrInvalidMentor. Index failures are logged only.
func (s *Service) Upsert(ctx context.Context, a dommentor.Attrs) (dommentor.Mentor, error) {
	m, err := s.prepare(a)
	if err != nil {
		return dommentor.Mentor{}, err
	}
	stored, err := s.store(ctx, &m)
	if err != nil {
		return dommentor.Mentor{}, err
	}
	s.afterWrite()
	return stored, nil
}

// Import stores a batch of mentors. Invalid records are rejected and reported;
// a store failure aborts the import.
func (s *Service) Import(ctx context.Context, records []dommentor.Attrs) (ImportReport, error) {
	var report ImportReport
	defer func() {
		if report.Imported > 0 {
			s.afterWrite()
		}
	}()

	for i, a := range records {
		m, err := s.prepare(a)
		if err != nil {
			report.Rejected = append(report.Rejected, Rejection{Index: i, ID: a.ID, Reason: err.Error()})
			continue
		}
		if _, err := s.store(ctx, &m); err != nil {
			return report, fmt.Errorf("import record %d: %w", i, err)
		}
		report.Imported++
	}

	s.logger.Info("Mentors imported",
		zap.Int("imported", report.Imported),
		zap.Int("rejected", len(report.Rejected)),
	)
	return report, nil
}

// Get returns a verified mentor. Unverified mentors are reported as not found.
func (s *Service) Get(ctx context.Context, id string) (dommentor.Mentor, error) {
	m, err := s.dir.GetMentor(ctx, id)
	if err != nil {
		return dommentor.Mentor{}, fmt.Errorf("get mentor: %w", err)
	}
	if !m.Verified() {
		return dommentor.Mentor{}, fmt.Errorf("get mentor %s: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

// Delete removes a mentor from the directory and the advanced index.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.dir.DeleteMentor(ctx, id); err != nil {
		return fmt.Errorf("delete mentor: %w", err)
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			s.indexFailed(id, err)
		}
	}
	s.afterWrite()
	return nil
}

func (s *Service) prepare(a dommentor.Attrs) (dommentor.Mentor, error) {
	a.Name = s.sanitize(a.Name)
	a.Title = s.sanitize(a.Title)
	a.Bio = s.sanitize(a.Bio)
	m, err := dommentor.New(a)
	if err != nil {
		return dommentor.Mentor{}, fmt.Errorf("%w: %w", domain.ErrInvalidMentor, err)
	}
	return m, nil
}

// maxSanitizePasses bounds how many layers of entity-encoded markup are peeled off.
const maxSanitizePasses = 5

// sanitize reduces v to plain text. Entities are decoded so "R&D" stays "R&D",
// and decoding repeats until no markup surfaces; text that still yields markup
// after maxSanitizePasses is kept HTML-escaped.
func (s *Service) sanitize(v string) string {
	for range maxSanitizePasses {
		plain := html.UnescapeString(s.policy.Sanitize(v))
		if plain == v {
			return strings.TrimSpace(plain)
		}
		v = plain
	}
	return strings.TrimSpace(s.policy.Sanitize(v))
}

// store writes the directory row and pushes the stored copy, whose created_at
// the directory may have filled in, to the index.
func (s *Service) store(ctx context.Context, m *dommentor.Mentor) (dommentor.Mentor, error) {
	if err := s.dir.UpsertMentor(ctx, m, s.now().UnixMilli()); err != nil {
		return dommentor.Mentor{}, fmt.Errorf("store mentor %s: %w", m.ID(), err)
	}
	stored, err := s.dir.GetMentor(ctx, m.ID())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		return dommentor.Mentor{}, fmt.Errorf("reload mentor %s: %w", m.ID(), err)
	}
	if s.index != nil {
		if err := s.index.Upsert(ctx, &stored); err != nil {
			s.indexFailed(m.ID(), err)
		}
	}
	return stored, nil
}

func (s *Service) indexFailed(id string, err error) {
	metrics.IndexerDocumentsTotal.WithLabelValues("push_error").Inc()
	s.logger.Warn("Advanced index push failed, next reindex will repair it",
		zap.String("mentor_id", id),
		zap.Error(err),
	)
}

func (s *Service) afterWrite() {
	if s.invalidate != nil {
		s.invalidate.Invalidate()
	}
}
