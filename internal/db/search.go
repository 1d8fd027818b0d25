package db

// SortKey is one SORTBY property of an aggregation.
type SortKey struct {
	Field string // property name without "@", e.g. "__score" or "created_at"
	Desc  bool
}

// AggregateQuery is the input for a ranked FT.AGGREGATE fetch.
type AggregateQuery struct {
	IndexName string
	Query     string
	AddScores bool     // expose the relevance score as @__score
	Load      []string // identifiers to load, e.g. "$" for the whole JSON document
	SortBy    []SortKey
	Offset    int
	Limit     int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
