// Package search is the advanced full-text index over verified mentors.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/mentordex/internal/db"
	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
	"github.com/kailas-cloud/mentordex/internal/domain/suggest"
)

// ErrIndexBuilding means the index exists but has not finished scanning existing documents.
var ErrIndexBuilding = errors.New("index is still building")

// valueTallyWindow bounds how many matching documents a value suggestion inspects.
const valueTallyWindow = 200

// store is the consumer interface for the advanced index (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
	SupportsTextSearch(ctx context.Context) bool
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.SearchResult, error)
}

// Repo implements the advanced-index ports of the search, suggest, mentor and indexer use cases.
type Repo struct {
	store     store
	index     string
	docPrefix string
}

// New creates an index repository. keyPrefix namespaces keys and the index,
// e.g. "mentordex:" gives documents "mentordex:mentor:<id>" and index "mentordex:mentors:idx".
func New(s store, keyPrefix string) *Repo {
	return &Repo{
		store:     s,
		index:     keyPrefix + "mentors:idx",
		docPrefix: keyPrefix + "mentor:",
	}
}

// IndexName returns the FT index name.
func (r *Repo) IndexName() string { return r.index }

// SupportsTextSearch proxies the capability check from the store.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// EnsureIndex creates the FT index when missing. Returns true if it was created.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.index, err)
	}
	if exists {
		return false, nil
	}
	if err := r.store.CreateIndex(ctx, indexDefinition(r.index, r.docPrefix)); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", r.index, err)
	}
	return true, nil
}

// DropIndex removes the FT index, keeping documents. A missing index is not an error.
func (r *Repo) DropIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.index); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.index, err)
	}
	return nil
}

// Probe issues a one-document text match. Any error means the index cannot serve text queries,
// including an index that is still scanning existing documents after creation.
func (r *Repo) Probe(ctx context.Context) error {
	info, err := r.store.IndexInfo(ctx, r.index)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", r.index, err)
	}
	if !info.Ready() {
		return fmt.Errorf("%w: %s is %.0f%% built", ErrIndexBuilding, r.index, info.PercentIndexed*100)
	}
	if _, err := r.store.SearchList(ctx, r.index, probeQuery, 0, 1, []string{"$.id"}); err != nil {
		return fmt.Errorf("probe %s: %w", r.index, err)
	}
	return nil
}

// Search returns one page of verified mentors matching text and filters,
// ordered by relevance then newest first.
func (r *Repo) Search(
	ctx context.Context, text string, filters filter.Expression, offset, limit int,
) ([]mentor.Mentor, error) {
	res, err := r.store.Aggregate(ctx, &db.AggregateQuery{
		IndexName: r.index,
		Query:     buildQuery(text, filters),
		AddScores: true,
		Load:      []string{"$"},
		SortBy: []db.SortKey{
			{Field: "__score", Desc: true},
			{Field: "created_at", Desc: true},
		},
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ranked search: %w", domain.ErrStoreFailure, err)
	}

	out := make([]mentor.Mentor, 0, len(res.Entries))
	for _, e := range res.Entries {
		doc, err := parseDoc(e.Fields["$"])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
		}
		out = append(out, doc.toMentor())
	}
	return out, nil
}

// Count counts verified mentors matching the same query as Search.
func (r *Repo) Count(ctx context.Context, text string, filters filter.Expression) (int, error) {
	n, err := r.store.SearchCount(ctx, r.index, buildQuery(text, filters))
	if err != nil {
		return 0, fmt.Errorf("%w: ranked count: %w", domain.ErrStoreFailure, err)
	}
	return n, nil
}

// SuggestNames returns up to limit verified mentors whose name completes prefix, best match first.
func (r *Repo) SuggestNames(ctx context.Context, prefix string, limit int) ([]suggest.Item, error) {
	q := namePrefixQuery(prefix)
	if q == "" {
		return []suggest.Item{}, nil
	}
	res, err := r.store.SearchList(ctx, r.index, q, 0, limit, []string{"$"})
	if err != nil {
		return nil, fmt.Errorf("%w: suggest names: %w", domain.ErrStoreFailure, err)
	}

	out := make([]suggest.Item, 0, len(res.Entries))
	for _, e := range res.Entries {
		doc, err := parseDoc(e.Fields["$"])
		if err != nil {
			continue
		}
		out = append(out, suggest.Item{
			ID:             doc.ID,
			Name:           doc.Name,
			Title:          doc.Title,
			ExpertiseAreas: nilIfEmpty(doc.ExpertiseAreas),
		})
	}
	return out, nil
}

// SuggestValues returns up to limit distinct values of a set field that start with prefix
// (case-insensitive), each with the number of matching verified mentors holding it.
// Values are tallied over at most valueTallyWindow documents, ordered by count
// descending then value ascending.
func (r *Repo) SuggestValues(
	ctx context.Context, field filter.Field, prefix string, limit int,
) ([]suggest.Item, error) {
	if !field.IsSet() {
		return nil, fmt.Errorf("field %q is not a set", field)
	}
	res, err := r.store.SearchList(ctx, r.index, tagPrefixQuery(field, prefix), 0, valueTallyWindow, []string{"$"})
	if err != nil {
		return nil, fmt.Errorf("%w: suggest %s: %w", domain.ErrStoreFailure, field, err)
	}

	lp := strings.ToLower(prefix)
	counts := make(map[string]int)
	for _, e := range res.Entries {
		doc, err := parseDoc(e.Fields["$"])
		if err != nil {
			continue
		}
		for _, v := range setValues(&doc, field) {
			if strings.HasPrefix(strings.ToLower(v), lp) {
				counts[v]++
			}
		}
	}

	return rankValues(counts, limit), nil
}

// Upsert writes the mentor document. Unverified mentors are removed instead.
func (r *Repo) Upsert(ctx context.Context, m *mentor.Mentor) error {
	if !m.Verified() {
		return r.Delete(ctx, m.ID())
	}
	data, err := json.Marshal(toDoc(m))
	if err != nil {
		return fmt.Errorf("marshal mentor %s: %w", m.ID(), err)
	}
	if err := r.store.JSONSet(ctx, r.key(m.ID()), "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", m.ID(), err)
	}
	return nil
}

// UpsertBatch writes verified mentors in one pipeline. Unverified mentors are skipped.
// Returns the number of documents written.
func (r *Repo) UpsertBatch(ctx context.Context, ms []mentor.Mentor) (int, error) {
	items := make([]db.JSONSetItem, 0, len(ms))
	for i := range ms {
		if !ms[i].Verified() {
			continue
		}
		data, err := json.Marshal(toDoc(&ms[i]))
		if err != nil {
			return 0, fmt.Errorf("marshal mentor %s: %w", ms[i].ID(), err)
		}
		items = append(items, db.JSONSetItem{Key: r.key(ms[i].ID()), Path: "$", Data: data})
	}
	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return 0, fmt.Errorf("json.set batch: %w", err)
	}
	return len(items), nil
}

// Delete removes a mentor document; a missing document is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del %s: %w", id, err)
	}
	return nil
}

// DeleteMany removes several mentor documents.
func (r *Repo) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("del %d documents: %w", len(keys), err)
	}
	return nil
}

// ListIDs returns the IDs of every indexed mentor document.
func (r *Repo) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.docPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.docPrefix, err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, r.docPrefix))
	}
	return ids, nil
}

func (r *Repo) key(id string) string {
	return r.docPrefix + id
}

func setValues(doc *mentorDoc, field filter.Field) []string {
	switch field {
	case filter.FieldExpertiseAreas:
		return doc.ExpertiseAreas
	case filter.FieldSkills:
		return doc.Skills
	case filter.FieldHelpAreas:
		return doc.HelpAreas
	default:
		return nil
	}
}

func rankValues(counts map[string]int, limit int) []suggest.Item {
	out := make([]suggest.Item, 0, len(counts))
	for v, n := range counts {
		out = append(out, suggest.Item{ID: v, Name: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
