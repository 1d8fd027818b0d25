package request

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

func f64(v float64) *float64 { return &v }

func TestNew_Browse(t *testing.T) {
	r, err := New(Params{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HasText() {
		t.Error("expected browse request")
	}
	if !r.Filters().IsEmpty() {
		t.Error("expected no filters")
	}
	if r.Offset() != 10 {
		t.Errorf("Offset() = %d, want 10", r.Offset())
	}
}

func TestNew_TrimsQuery(t *testing.T) {
	r, err := New(Params{Query: "  software  ", Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Text() != "software" {
		t.Errorf("Text() = %q", r.Text())
	}

	r, err = New(Params{Query: "   ", Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HasText() {
		t.Error("whitespace-only query must browse")
	}
}

func TestNew_InvalidPaging(t *testing.T) {
	tests := []Params{
		{Page: 0, Limit: 10},
		{Page: -1, Limit: 10},
		{Page: 1, Limit: 0},
		{Page: 1, Limit: -5},
	}
	for _, p := range tests {
		_, err := New(p)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("New(%+v) err = %v, want ErrInvalidRequest", p, err)
		}
	}
}

func TestNew_ClampsLimit(t *testing.T) {
	r, err := New(Params{Page: 1, Limit: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != MaxLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), MaxLimit)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(Params{Query: strings.Repeat("a", MaxQueryLength+1), Page: 1, Limit: 1})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestNew_BuildsFilters(t *testing.T) {
	r, err := New(Params{
		Skills:        []string{"React", ""},
		HelpAreas:     []string{" "},
		MinExperience: f64(5),
		MaxHourlyRate: f64(100),
		Page:          1,
		Limit:         10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conds := r.Filters().Conditions()
	if len(conds) != 3 {
		t.Fatalf("expected 3 conditions, got %d", len(conds))
	}
	if conds[0].Field() != filter.FieldSkills || conds[0].AnyOf()[0] != "React" {
		t.Errorf("unexpected skills condition: %+v", conds[0])
	}
	if gte := conds[1].Range().GTE(); conds[1].Field() != filter.FieldExperienceYears || gte == nil || *gte != 5 {
		t.Errorf("unexpected experience condition: %+v", conds[1])
	}
	if lte := conds[2].Range().LTE(); conds[2].Field() != filter.FieldHourlyRate || lte == nil || *lte != 100 {
		t.Errorf("unexpected rate condition: %+v", conds[2])
	}
}

func TestNew_NegativeThresholds(t *testing.T) {
	if _, err := New(Params{MinExperience: f64(-1), Page: 1, Limit: 1}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("minExperience: err = %v", err)
	}
	if _, err := New(Params{MaxHourlyRate: f64(-1), Page: 1, Limit: 1}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("maxHourlyRate: err = %v", err)
	}
}

func TestNew_MalformedFilterValue(t *testing.T) {
	_, err := New(Params{Skills: []string{strings.Repeat("x", filter.MaxValueLength+1)}, Page: 1, Limit: 1})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestNew_NonFiniteThresholds(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := New(Params{MinExperience: f64(v), Page: 1, Limit: 1}); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("minExperience %v: err = %v, want ErrInvalidRequest", v, err)
		}
		if _, err := New(Params{MaxHourlyRate: f64(v), Page: 1, Limit: 1}); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("maxHourlyRate %v: err = %v, want ErrInvalidRequest", v, err)
		}
	}
}

func TestNew_PageOffsetOverflow(t *testing.T) {
	for _, p := range []Params{
		{Page: math.MaxInt, Limit: 10},
		{Page: math.MaxInt/10 + 2, Limit: 10},
		{Page: math.MaxInt/100 + 1, Limit: 1000},
	} {
		if _, err := New(p); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("New(page=%d limit=%d) err = %v, want ErrInvalidRequest", p.Page, p.Limit, err)
		}
	}

	r, err := New(Params{Page: 1_000_000, Limit: 10})
	if err != nil {
		t.Fatalf("large in-range page rejected: %v", err)
	}
	if r.Offset() != 9_999_990 {
		t.Errorf("Offset() = %d, want 9999990", r.Offset())
	}
}

func TestNew_PunctuationOnlyQueryBrowses(t *testing.T) {
	for _, q := range []string{"!!!", " -- ", "(*)", "@#$%"} {
		r, err := New(Params{Query: q, Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("New(%q): %v", q, err)
		}
		if r.HasText() || r.Text() != "" {
			t.Errorf("New(%q) text = %q, want browse", q, r.Text())
		}
	}

	r, err := New(Params{Query: "c++", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Text() != "c++" {
		t.Errorf("Text() = %q, want c++ kept verbatim", r.Text())
	}
}
