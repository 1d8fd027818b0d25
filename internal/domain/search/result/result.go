package result

import "github.com/kailas-cloud/mentordex/internal/domain/mentor"

// Pagination is the page metadata shared by every paginated read.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// NewPagination derives page metadata from page, limit and the pre-pagination total.
// A page past the end is valid: it reports HasNext=false and keeps the real total.
func NewPagination(page, limit, total int) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total, HasPrev: page > 1}
	if limit > 0 {
		p.TotalPages = (total + limit - 1) / limit
		p.HasNext = page < p.TotalPages
	}
	return p
}

// Page is one page of mentor search results.
type Page struct {
	mentors    []mentor.Mentor
	pagination Pagination
	advanced   bool
}

// New creates a result page.
func New(mentors []mentor.Mentor, pagination Pagination, advanced bool) Page {
	if mentors == nil {
		mentors = []mentor.Mentor{}
	}
	return Page{mentors: mentors, pagination: pagination, advanced: advanced}
}

// Mentors returns the page records, never nil.
func (p *Page) Mentors() []mentor.Mentor { return p.mentors }

// Pagination returns the page metadata.
func (p *Page) Pagination() Pagination { return p.pagination }

// AdvancedSearchEnabled reports whether the ranked full-text plan produced this page.
func (p *Page) AdvancedSearchEnabled() bool { return p.advanced }
