package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/mentors/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	r.Get("/api/v1/mentors/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	return r
}

func serve(h http.Handler, target string) {
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, http.NoBody))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	h := newRouter()
	counter := httpRequestsTotal.WithLabelValues("/api/v1/mentors/{id}", "200")
	before := testutil.ToFloat64(counter)

	serve(h, "/api/v1/mentors/m-1")
	serve(h, "/api/v1/mentors/m-2")

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("requests for /api/v1/mentors/{id} = %v, want 2", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected latency observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	h := newRouter()
	tests := []struct {
		target, route, status string
	}{
		{"/api/v1/mentors/missing", "/api/v1/mentors/{id}", "404"},
		{"/api/v1/mentors/search", "/api/v1/mentors/search", "503"},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			counter := httpRequestsTotal.WithLabelValues(tc.route, tc.status)
			before := testutil.ToFloat64(counter)
			serve(h, tc.target)
			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("%s %s: delta = %v, want 1", tc.route, tc.status, got)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	h := newRouter()
	counter := httpRequestsTotal.WithLabelValues(unmatchedRoute, "404")
	before := testutil.ToFloat64(counter)

	serve(h, "/wp-admin/setup.php")

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("unmatched requests delta = %v, want 1", got)
	}
}

func TestMiddleware_InFlightSettles(t *testing.T) {
	serve(newRouter(), "/api/v1/mentors/m-1")
	if v := testutil.ToFloat64(httpInFlight); v != 0 {
		t.Errorf("in-flight = %v after the request finished", v)
	}
}

func TestRouteLabel_OutsideRouter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
	if got := routeLabel(r); got != unmatchedRoute {
		t.Errorf("routeLabel() = %q", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 204: "2xx", 404: "4xx", 503: "5xx", 42: "other", 700: "other"}
	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()

	SearchPlansTotal.WithLabelValues("fallback").Inc()
	if v := testutil.ToFloat64(SearchPlansTotal.WithLabelValues("fallback")); v < 1 {
		t.Errorf("expected search_plans_total >= 1, got %f", v)
	}
}
