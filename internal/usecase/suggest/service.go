// Package suggest serves type-ahead completion. Suggestions are best effort:
// short prefixes, an unavailable index and backend errors all yield an empty list.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
	domsuggest "github.com/kailas-cloud/mentordex/internal/domain/suggest"
	"github.com/kailas-cloud/mentordex/internal/metrics"
)

// MaxPrefixLength caps the completed prefix.
const MaxPrefixLength = 100

// Service completes mentor names, skills and expertise areas.
type Service struct {
	index  Index
	probe  Availability
	logger *zap.Logger
}

// New creates a suggestion service. index may be nil (no advanced index configured).
func New(index Index, probe Availability, logger *zap.Logger) *Service {
	return &Service{index: index, probe: probe, logger: logger}
}

// Suggest returns at most kind.Limit() items for prefix. The only error is an
// unknown kind, which wraps domain.ErrInvalidRequest.
func (s *Service) Suggest(ctx context.Context, prefix string, kind domsuggest.Kind) ([]domsuggest.Item, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown suggestion type %q", domain.ErrInvalidRequest, kind)
	}

	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < domsuggest.MinPrefixLength {
		metrics.SuggestionsTotal.WithLabelValues(string(kind), "short").Inc()
		return []domsuggest.Item{}, nil
	}
	if len(prefix) > MaxPrefixLength {
		return nil, fmt.Errorf("%w: prefix too long (max %d)", domain.ErrInvalidRequest, MaxPrefixLength)
	}

	if s.index == nil || s.probe == nil || !s.probe.Available(ctx) {
		metrics.SuggestionsTotal.WithLabelValues(string(kind), "unavailable").Inc()
		return []domsuggest.Item{}, nil
	}

	var (
		items []domsuggest.Item
		err   error
	)
	switch kind {
	case domsuggest.KindMentorName:
		items, err = s.index.SuggestNames(ctx, prefix, kind.Limit())
	case domsuggest.KindSkill:
		items, err = s.index.SuggestValues(ctx, filter.FieldSkills, prefix, kind.Limit())
	case domsuggest.KindExpertiseArea:
		items, err = s.index.SuggestValues(ctx, filter.FieldExpertiseAreas, prefix, kind.Limit())
	}
	if err != nil {
		s.logger.Warn("Suggestion query failed",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		metrics.SuggestionsTotal.WithLabelValues(string(kind), "error").Inc()
		return []domsuggest.Item{}, nil
	}

	metrics.SuggestionsTotal.WithLabelValues(string(kind), "ok").Inc()
	if items == nil {
		items = []domsuggest.Item{}
	}
	if len(items) > kind.Limit() {
		items = items[:kind.Limit()]
	}
	return items, nil
}
