package search

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/cache"
	"github.com/kailas-cloud/mentordex/internal/metrics"
)

// Probe timing limits.
const (
	DefaultProbeTimeout = 500 * time.Millisecond
	MaxProbeCacheTTL    = 60 * time.Second
)

const probeCacheKey = "advanced"

// CapabilityProbe decides whether the advanced index is usable by issuing a
// one-document text match under a bounded timeout. Errors and timeouts read as
// unavailable; nothing is surfaced to the caller.
type CapabilityProbe struct {
	index    Prober
	timeout  time.Duration
	cache    *cache.TTL[string, bool]
	logger   *zap.Logger
	building atomic.Bool
}

// NewCapabilityProbe creates a probe. index may be nil (no advanced index configured).
// cacheTTL 0 re-probes on every call; it is capped at MaxProbeCacheTTL.
func NewCapabilityProbe(index Prober, timeout, cacheTTL time.Duration, logger *zap.Logger) *CapabilityProbe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	cacheTTL = min(cacheTTL, MaxProbeCacheTTL)
	return &CapabilityProbe{
		index:   index,
		timeout: timeout,
		cache:   cache.New[string, bool](1, cacheTTL),
		logger:  logger,
	}
}

// Available reports whether ranked search can run now.
func (p *CapabilityProbe) Available(ctx context.Context) bool {
	if p.index == nil {
		return false
	}
	if p.building.Load() {
		metrics.SearchProbeTotal.WithLabelValues("building").Inc()
		return false
	}
	if ok, hit := p.cache.Get(probeCacheKey); hit {
		metrics.SearchProbeTotal.WithLabelValues("cached").Inc()
		return ok
	}

	ok := p.probe(ctx)
	p.cache.Set(probeCacheKey, ok)
	if ok {
		metrics.SearchProbeTotal.WithLabelValues("available").Inc()
	} else {
		metrics.SearchProbeTotal.WithLabelValues("unavailable").Inc()
	}
	return ok
}

func (p *CapabilityProbe) probe(ctx context.Context) bool {
	if !p.index.SupportsTextSearch(ctx) {
		p.logger.Debug("Advanced index has no full-text support")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	if err := p.index.Probe(ctx); err != nil {
		p.logger.Debug("Advanced index probe failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Invalidate forgets a cached probe result, e.g. after the index was rebuilt.
func (p *CapabilityProbe) Invalidate() {
	p.cache.Invalidate()
}

// Hold reports the index unavailable until Release, while a fresh index is being filled.
func (p *CapabilityProbe) Hold() {
	p.building.Store(true)
	p.cache.Invalidate()
}

// Release ends a Hold. The next call to Available checks the index again.
func (p *CapabilityProbe) Release() {
	p.cache.Invalidate()
	p.building.Store(false)
}
