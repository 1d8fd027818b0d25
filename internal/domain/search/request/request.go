package request

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed free-text query length.
	MaxQueryLength = 256
	DefaultPage    = 1
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Params is the raw, unvalidated input of a mentor search.
type Params struct {
	Query          string
	ExpertiseAreas []string
	Skills         []string
	HelpAreas      []string
	MinExperience  *float64
	MaxHourlyRate  *float64
	Page           int
	Limit          int
}

// Request is a validated mentor search query.
type Request struct {
	text    string
	filters filter.Expression
	page    int
	limit   int
}

// New validates search parameters and builds the filter expression.
// Page and limit must be positive; limit is clamped to MaxLimit and the
// resulting offset must fit in an int. Text without letters or digits browses.
// All validation errors wrap domain.ErrInvalidRequest.
func New(p Params) (Request, error) {
	if p.Page < 1 {
		return Request{}, invalid("page must be >= 1, got %d", p.Page)
	}
	if p.Limit < 1 {
		return Request{}, invalid("limit must be >= 1, got %d", p.Limit)
	}
	limit := min(p.Limit, MaxLimit)
	if p.Page-1 > (math.MaxInt-limit)/limit {
		return Request{}, invalid("page %d is out of range", p.Page)
	}

	text := strings.TrimSpace(p.Query)
	if len(text) > MaxQueryLength {
		return Request{}, invalid("query too long (max %d chars)", MaxQueryLength)
	}
	if !strings.ContainsFunc(text, isWordRune) {
		text = ""
	}

	var conds []filter.Condition
	sets := []struct {
		field  filter.Field
		values []string
	}{
		{filter.FieldExpertiseAreas, p.ExpertiseAreas},
		{filter.FieldSkills, p.Skills},
		{filter.FieldHelpAreas, p.HelpAreas},
	}
	for _, s := range sets {
		if !hasValue(s.values) {
			continue
		}
		c, err := filter.NewAnyOf(s.field, s.values...)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		conds = append(conds, c)
	}

	if p.MinExperience != nil {
		if !finite(*p.MinExperience) {
			return Request{}, invalid("minExperience must be a finite number")
		}
		if *p.MinExperience < 0 {
			return Request{}, invalid("minExperience must not be negative")
		}
		c, err := filter.NewRange(filter.FieldExperienceYears, filter.AtLeast(*p.MinExperience))
		if err != nil {
			return Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		conds = append(conds, c)
	}
	if p.MaxHourlyRate != nil {
		if !finite(*p.MaxHourlyRate) {
			return Request{}, invalid("maxHourlyRate must be a finite number")
		}
		if *p.MaxHourlyRate < 0 {
			return Request{}, invalid("maxHourlyRate must not be negative")
		}
		c, err := filter.NewRange(filter.FieldHourlyRate, filter.AtMost(*p.MaxHourlyRate))
		if err != nil {
			return Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		conds = append(conds, c)
	}

	expr, err := filter.NewExpression(conds...)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	return Request{text: text, filters: expr, page: p.Page, limit: limit}, nil
}

// Text returns the trimmed free-text query; empty means browse.
func (r *Request) Text() string { return r.text }

// HasText reports whether the request carries free text.
func (r *Request) HasText() bool { return r.text != "" }

// Filters returns the structured filter expression.
func (r *Request) Filters() filter.Expression { return r.filters }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the number of records to skip: (page-1)*limit.
func (r *Request) Offset() int { return (r.page - 1) * r.limit }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func hasValue(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
