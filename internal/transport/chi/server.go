package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/domain"
	domanalytics "github.com/kailas-cloud/mentordex/internal/domain/analytics"
	dommentor "github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/request"
	"github.com/kailas-cloud/mentordex/internal/domain/search/result"
	"github.com/kailas-cloud/mentordex/internal/domain/session"
	domsuggest "github.com/kailas-cloud/mentordex/internal/domain/suggest"
	"github.com/kailas-cloud/mentordex/internal/domain/user"
	logpkg "github.com/kailas-cloud/mentordex/internal/logger"
	"github.com/kailas-cloud/mentordex/internal/metrics"
	healthuc "github.com/kailas-cloud/mentordex/internal/usecase/health"
	"github.com/kailas-cloud/mentordex/internal/version"
)

const storeFailureMessage = "search failed, please retry"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the mentor discovery HTTP API.
type Server struct {
	svc           Services
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, limits Limits, logger *zap.Logger) *Server {
	s := &Server{
		svc:    svc,
		limits: limits.withDefaults(),
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrStoreFailure, http.StatusServiceUnavailable, ErrorCodeStoreFailure),
	}
	return s
}

// Handler builds the router with the full middleware chain.
func (s *Server) Handler(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.GlobalSearch)
		r.Route("/mentors", func(r chi.Router) {
			r.Get("/search", s.SearchMentors)
			r.Get("/suggestions", s.GetSuggestions)
			r.Get("/analytics", s.GetAnalytics)
			r.Get("/{id}", s.GetMentor)
		})
	})
	return r
}

// SearchMentors handles GET /api/v1/mentors/search.
func (s *Server) SearchMentors(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	req, err := request.New(params.toRequestParams(s.limits))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.svc.Search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logpkg.Annotate(r.Context(),
		zap.Bool("advanced", page.AdvancedSearchEnabled()),
		zap.Int("total", page.Pagination().Total),
	)

	writeJSON(w, http.StatusOK, NewMentorSearchResponse(&page))
}

// GetMentor handles GET /api/v1/mentors/{id}.
func (s *Server) GetMentor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logpkg.Annotate(r.Context(), zap.String("mentor_id", id))
	m, err := s.svc.Mentors.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !m.Verified() {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "mentor not found")
		return
	}
	writeJSON(w, http.StatusOK, mentorToAPI(&m))
}

// GetSuggestions handles GET /api/v1/mentors/suggestions.
func (s *Server) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	params, err := bindSuggestionParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	kind, err := domsuggest.ParseKind(deref(params.Type))
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
		return
	}

	items, err := s.svc.Suggest.Suggest(r.Context(), deref(params.Q), kind)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewSuggestionsResponse(items))
}

// GetAnalytics handles GET /api/v1/mentors/analytics.
func (s *Server) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Analytics.Snapshot(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewAnalyticsResponse(&snap))
}

// GlobalSearch handles GET /api/v1/search.
func (s *Server) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	params, err := bindGlobalParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.svc.Global.Search(r.Context(),
		deref(params.Q), pageOrDefault(params.Page), limitOrDefault(params.Limit, s.limits))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logpkg.Annotate(r.Context(), zap.Int("total", res.Pagination.Total))

	users := make([]User, len(res.Users))
	for i, u := range res.Users {
		users[i] = userToAPI(u)
	}
	sessions := make([]Session, len(res.Sessions))
	for i, ss := range res.Sessions {
		sessions[i] = sessionToAPI(ss)
	}

	writeJSON(w, http.StatusOK, GlobalSearchResponse{
		Mentors:    mentorsToAPI(res.Mentors),
		Users:      users,
		Sessions:   sessions,
		Pagination: paginationToAPI(res.Pagination),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing store internals.
// Validation errors carry their own text, which never includes driver output.
func safeDomainMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return validationMessage(err)
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrStoreFailure):
		return storeFailureMessage
	default:
		return "internal error"
	}
}

// validationMessage strips wrapping context so only the innermost reason remains,
// e.g. "invalid request: page must be >= 1, got 0".
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrInvalidRequest.Error()); i > 0 {
		return msg[i:]
	}
	return msg
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	switch {
	case errors.Is(err, domain.ErrStoreFailure):
		log.Error("store failure", zap.Error(err))
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrNotFound):
		log.Debug("request rejected", zap.Error(err))
	}

	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// NewMentorSearchResponse converts a result page to its wire form.
func NewMentorSearchResponse(page *result.Page) MentorSearchResponse {
	return MentorSearchResponse{
		Mentors:               mentorsToAPI(page.Mentors()),
		Pagination:            paginationToAPI(page.Pagination()),
		AdvancedSearchEnabled: page.AdvancedSearchEnabled(),
	}
}

// NewSuggestionsResponse converts suggestion items to their wire form.
func NewSuggestionsResponse(items []domsuggest.Item) SuggestionsResponse {
	out := make([]Suggestion, len(items))
	for i, it := range items {
		out[i] = Suggestion{
			ID:             it.ID,
			Name:           it.Name,
			Title:          it.Title,
			ExpertiseAreas: it.ExpertiseAreas,
			Count:          it.Count,
		}
	}
	return SuggestionsResponse{Suggestions: out}
}

// NewAnalyticsResponse converts an analytics snapshot to its wire form.
func NewAnalyticsResponse(snap *domanalytics.Snapshot) AnalyticsResponse {
	return AnalyticsResponse{
		TotalMentors:   snap.TotalMentors,
		ExpertiseAreas: facetsToAPI(snap.ExpertiseAreas),
		Skills:         facetsToAPI(snap.Skills),
		HelpAreas:      facetsToAPI(snap.HelpAreas),
		Experience:     Range(snap.Experience),
		HourlyRate:     Range(snap.HourlyRate),
	}
}

func mentorsToAPI(ms []dommentor.Mentor) []Mentor {
	out := make([]Mentor, len(ms))
	for i := range ms {
		out[i] = mentorToAPI(&ms[i])
	}
	return out
}

func mentorToAPI(m *dommentor.Mentor) Mentor {
	return Mentor{
		ID:              m.ID(),
		Name:            m.Name(),
		Title:           m.Title(),
		Bio:             m.Bio(),
		ExpertiseAreas:  emptyIfNil(m.ExpertiseAreas()),
		Skills:          emptyIfNil(m.Skills()),
		HelpAreas:       emptyIfNil(m.HelpAreas()),
		ExperienceYears: m.ExperienceYears(),
		HourlyRate:      m.HourlyRate(),
		OffersFreeIntro: m.OffersFreeIntro(),
		Verified:        m.Verified(),
		CreatedAt:       millis(m.CreatedAt()),
	}
}

func paginationToAPI(p result.Pagination) Pagination {
	return Pagination(p)
}

func facetsToAPI(fs []domanalytics.Facet) []Facet {
	out := make([]Facet, len(fs))
	for i, f := range fs {
		out[i] = Facet(f)
	}
	return out
}

func userToAPI(u user.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: millis(u.CreatedAt),
	}
}

func sessionToAPI(s session.Session) Session {
	return Session{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		MentorID:    s.MentorID,
		Status:      string(s.Status),
		ScheduledAt: millis(s.ScheduledAt),
		CreatedAt:   millis(s.CreatedAt),
	}
}

func millis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
