package chi

import "time"

// ErrorCode is the machine-readable error code of an API error.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeStoreFailure     ErrorCode = "store_failure"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Mentor is the public mentor profile.
type Mentor struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Bio             string    `json:"bio"`
	ExpertiseAreas  []string  `json:"expertiseAreas"`
	Skills          []string  `json:"skills"`
	HelpAreas       []string  `json:"helpAreas"`
	ExperienceYears float64   `json:"experienceYears"`
	HourlyRate      float64   `json:"hourlyRate"`
	OffersFreeIntro bool      `json:"offersFreeIntro"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Pagination is the page metadata of paginated responses.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// MentorSearchResponse is returned by GET /api/v1/mentors/search.
type MentorSearchResponse struct {
	Mentors               []Mentor   `json:"mentors"`
	Pagination            Pagination `json:"pagination"`
	AdvancedSearchEnabled bool       `json:"advancedSearchEnabled"`
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	Title          string   `json:"title,omitempty"`
	ExpertiseAreas []string `json:"expertiseAreas,omitempty"`
	Count          int      `json:"count,omitempty"`
}

// SuggestionsResponse is returned by GET /api/v1/mentors/suggestions.
type SuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Facet is a set value with its mentor count.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Range is a numeric min/max/avg summary.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// AnalyticsResponse is returned by GET /api/v1/mentors/analytics.
type AnalyticsResponse struct {
	TotalMentors   int     `json:"totalMentors"`
	ExpertiseAreas []Facet `json:"expertiseAreas"`
	Skills         []Facet `json:"skills"`
	HelpAreas      []Facet `json:"helpAreas"`
	Experience     Range   `json:"experience"`
	HourlyRate     Range   `json:"hourlyRate"`
}

// User is a platform account in global search results.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a mentoring session in global search results.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MentorID    string    `json:"mentorId"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduledAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GlobalSearchResponse is returned by GET /api/v1/search.
type GlobalSearchResponse struct {
	Mentors    []Mentor   `json:"mentors"`
	Users      []User     `json:"users"`
	Sessions   []Session  `json:"sessions"`
	Pagination Pagination `json:"pagination"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}
