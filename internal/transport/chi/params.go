package chi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
)

// Limits bounds the page size accepted by paginated routes.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

func (l Limits) withDefaults() Limits {
	if l.MaxLimit <= 0 || l.MaxLimit > request.MaxLimit {
		l.MaxLimit = request.MaxLimit
	}
	if l.DefaultLimit <= 0 {
		l.DefaultLimit = request.DefaultLimit
	}
	l.DefaultLimit = min(l.DefaultLimit, l.MaxLimit)
	return l
}

// InvalidParamError reports a query parameter that could not be bound.
type InvalidParamError struct {
	Param string
	Err   error
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s", e.Param)
}

func (e *InvalidParamError) Unwrap() error { return e.Err }

// Optional parameters bind through an extra pointer, as generated oapi-codegen code does.
type searchParams struct {
	Q              *string
	ExpertiseAreas *[]string
	Skills         *[]string
	HelpAreas      *[]string
	MinExperience  *float64
	MaxHourlyRate  *float64
	Page           *int
	Limit          *int
}

type suggestionParams struct {
	Q    *string
	Type *string
}

type globalParams struct {
	Q     *string
	Page  *int
	Limit *int
}

func bindParam(q url.Values, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
		return &InvalidParamError{Param: name, Err: err}
	}
	return nil
}

func bindSearchParams(q url.Values) (searchParams, error) {
	var p searchParams
	binds := []struct {
		name string
		dest any
	}{
		{"q", &p.Q},
		{"expertiseAreas", &p.ExpertiseAreas},
		{"skills", &p.Skills},
		{"helpAreas", &p.HelpAreas},
		{"minExperience", &p.MinExperience},
		{"maxHourlyRate", &p.MaxHourlyRate},
		{"page", &p.Page},
		{"limit", &p.Limit},
	}
	for _, b := range binds {
		if err := bindParam(q, b.name, b.dest); err != nil {
			return searchParams{}, err
		}
	}
	return p, nil
}

func bindSuggestionParams(q url.Values) (suggestionParams, error) {
	var p suggestionParams
	if err := bindParam(q, "q", &p.Q); err != nil {
		return suggestionParams{}, err
	}
	if err := bindParam(q, "type", &p.Type); err != nil {
		return suggestionParams{}, err
	}
	return p, nil
}

func bindGlobalParams(q url.Values) (globalParams, error) {
	var p globalParams
	if err := bindParam(q, "q", &p.Q); err != nil {
		return globalParams{}, err
	}
	if err := bindParam(q, "page", &p.Page); err != nil {
		return globalParams{}, err
	}
	if err := bindParam(q, "limit", &p.Limit); err != nil {
		return globalParams{}, err
	}
	return p, nil
}

// toRequestParams applies paging defaults. An explicit limit above MaxLimit is
// clamped; zero or negative values are left for request.New to reject.
func (p searchParams) toRequestParams(l Limits) request.Params {
	return request.Params{
		Query:          deref(p.Q),
		ExpertiseAreas: splitList(deref(p.ExpertiseAreas)),
		Skills:         splitList(deref(p.Skills)),
		HelpAreas:      splitList(deref(p.HelpAreas)),
		MinExperience:  p.MinExperience,
		MaxHourlyRate:  p.MaxHourlyRate,
		Page:           pageOrDefault(p.Page),
		Limit:          limitOrDefault(p.Limit, l),
	}
}

func pageOrDefault(p *int) int {
	if p == nil {
		return request.DefaultPage
	}
	return *p
}

func limitOrDefault(p *int, l Limits) int {
	if p == nil {
		return l.DefaultLimit
	}
	return min(*p, l.MaxLimit)
}

// splitList accepts both repeated parameters and comma-separated values.
func splitList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
