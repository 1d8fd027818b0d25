package valkey

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kailas-cloud/mentordex/internal/db"
	"github.com/kailas-cloud/mentordex/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Valkey store.
type Config = redis.Config

// Store implements db.Store for Valkey with the valkey-search and valkey-json modules.
// valkey-search has no TEXT fields, no FT.AGGREGATE scoring and no bare "*" FT.SEARCH,
// so text search is reported unsupported and wildcard listing falls back to SCAN.
type Store struct {
	*redis.Store

	mu       sync.RWMutex
	prefixes map[string]string // index name -> key prefix, learned on CreateIndex
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	rs, err := redis.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return wrap(rs), nil
}

func wrap(rs *redis.Store) *Store {
	return &Store{Store: rs, prefixes: make(map[string]string)}
}

// SupportsTextSearch returns false: valkey-search indexes TAG and NUMERIC fields only.
func (s *Store) SupportsTextSearch(_ context.Context) bool {
	return false
}

// CreateIndex creates the index without its TEXT fields.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	stripped := def.WithoutTextFields()
	if len(stripped.Fields) == 0 {
		return fmt.Errorf("index %s has no fields valkey can index", def.Name)
	}

	err := s.Store.CreateIndex(ctx, stripped)
	if err == nil || errors.Is(err, db.ErrIndexExists) {
		s.rememberPrefix(def)
	}
	return err
}

// Aggregate is not available on valkey-search.
func (s *Store) Aggregate(_ context.Context, _ *db.AggregateQuery) (*db.SearchResult, error) {
	return nil, &db.Error{Op: db.OpAggregate, Err: db.ErrUnsupported}
}

// SearchList performs paginated search. Valkey-search does not support bare FT.SEARCH,
// so query="*" falls back to SCAN + JSON.GET.
func (s *Store) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	if query == "*" {
		return s.scanList(ctx, index, offset, limit, fields)
	}
	return s.Store.SearchList(ctx, index, query, offset, limit, fields)
}

// SearchCount returns document count. Falls back to SCAN for query="*".
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	if query == "*" {
		return s.scanCount(ctx, index)
	}
	return s.Store.SearchCount(ctx, index, query)
}

func (s *Store) scanList(
	ctx context.Context, index string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	keys, err := s.Scan(ctx, s.keyPrefix(index)+"*")
	if err != nil {
		return nil, fmt.Errorf("scan for list: %w", err)
	}

	sort.Strings(keys) // deterministic ordering

	total := len(keys)
	if offset >= total {
		return &db.SearchResult{Total: total}, nil
	}

	end := min(offset+limit, total)
	pageKeys := keys[offset:end]

	paths := fields
	if len(paths) == 0 {
		paths = []string{"$"}
	}

	entries := make([]db.SearchEntry, 0, len(pageKeys))
	for _, key := range pageKeys {
		raw, err := s.JSONGet(ctx, key, paths...)
		if err != nil {
			continue // key may have been deleted between SCAN and GET
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: map[string]string{"$": string(raw)},
		})
	}

	return &db.SearchResult{Total: total, Entries: entries}, nil
}

func (s *Store) scanCount(ctx context.Context, index string) (int, error) {
	keys, err := s.Scan(ctx, s.keyPrefix(index)+"*")
	if err != nil {
		return 0, fmt.Errorf("scan for count: %w", err)
	}
	return len(keys), nil
}

func (s *Store) rememberPrefix(def *db.IndexDefinition) {
	if len(def.Prefixes) == 0 {
		return
	}
	s.mu.Lock()
	s.prefixes[def.Name] = def.Prefixes[0]
	s.mu.Unlock()
}

func (s *Store) keyPrefix(index string) string {
	s.mu.RLock()
	p, ok := s.prefixes[index]
	s.mu.RUnlock()
	if ok {
		return p
	}
	return indexToKeyPrefix(index)
}

// indexToKeyPrefix converts an index name to a SCAN prefix.
// "mentordex:mentors:idx" -> "mentordex:mentors:"
func indexToKeyPrefix(index string) string {
	if strings.HasSuffix(index, ":idx") {
		return index[:len(index)-3]
	}
	return index + ":"
}
