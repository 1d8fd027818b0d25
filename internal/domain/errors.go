package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search request (bad page, limit or filter value).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStoreFailure signals that a directory fetch, count or aggregation failed.
	ErrStoreFailure = errors.New("store failure")
	// ErrBackendUnavailable signals that the advanced search index cannot serve queries.
	// It never leaves the search use case: callers fall back to plain matching.
	ErrBackendUnavailable = errors.New("advanced search backend unavailable")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidMentor signals a mentor record that fails validation on import.
	ErrInvalidMentor = errors.New("invalid mentor")
)
