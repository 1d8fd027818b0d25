package filter

import (
	"fmt"
	"strings"
)

// Limits for filter expressions.
const (
	MaxConditions   = 8
	MaxValuesPerSet = 32
	MaxValueLength  = 100
)

// Field is a filterable mentor attribute.
type Field string

// Filterable fields. Set fields take AnyOf conditions, numeric fields take ranges.
const (
	FieldExpertiseAreas  Field = "expertise_areas"
	FieldSkills          Field = "skills"
	FieldHelpAreas       Field = "help_areas"
	FieldExperienceYears Field = "experience_years"
	FieldHourlyRate      Field = "hourly_rate"
)

// IsSet reports whether the field is a multi-valued set.
func (f Field) IsSet() bool {
	return f == FieldExpertiseAreas || f == FieldSkills || f == FieldHelpAreas
}

// IsNumeric reports whether the field is numeric.
func (f Field) IsNumeric() bool {
	return f == FieldExperienceYears || f == FieldHourlyRate
}

// Expression is a conjunction of conditions: every condition must hold.
// Within an AnyOf condition, any listed value matches.
type Expression struct {
	conditions []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(conditions ...Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	seen := make(map[Field]bool, len(conditions))
	for _, c := range conditions {
		if c.field == "" {
			return Expression{}, fmt.Errorf("filter condition without field")
		}
		if seen[c.field] {
			return Expression{}, fmt.Errorf("duplicate filter on %q", c.field)
		}
		seen[c.field] = true
	}
	return Expression{conditions: conditions}, nil
}

// Conditions returns the conditions in declaration order.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Condition is a single filter clause: either set membership or a numeric range.
type Condition struct {
	field     Field
	anyOf     []string
	rangeExpr *Range
}

// NewAnyOf creates a set membership condition: the field must contain at least one of values.
// Values are trimmed; blanks and case-insensitive duplicates are dropped.
func NewAnyOf(field Field, values ...string) (Condition, error) {
	if !field.IsSet() {
		return Condition{}, fmt.Errorf("field %q does not support set filters", field)
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if len(v) > MaxValueLength {
			return Condition{}, fmt.Errorf("filter value too long for %q (max %d)", field, MaxValueLength)
		}
		k := strings.ToLower(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for %q", field)
	}
	if len(out) > MaxValuesPerSet {
		return Condition{}, fmt.Errorf("too many values for %q (max %d)", field, MaxValuesPerSet)
	}
	return Condition{field: field, anyOf: out}, nil
}

// NewRange creates a numeric range condition.
func NewRange(field Field, r Range) (Condition, error) {
	if !field.IsNumeric() {
		return Condition{}, fmt.Errorf("field %q does not support range filters", field)
	}
	return Condition{field: field, rangeExpr: &r}, nil
}

// Field returns the filtered attribute.
func (c Condition) Field() Field { return c.field }

// AnyOf returns the accepted set values.
func (c Condition) AnyOf() []string { return c.anyOf }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsAnyOf reports whether this is a set membership condition.
func (c Condition) IsAnyOf() bool { return len(c.anyOf) > 0 }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is a numeric range with optional inclusive boundaries.
type Range struct {
	gte *float64
	lte *float64
}

// AtLeast is an inclusive lower bound.
func AtLeast(v float64) Range { return Range{gte: &v} }

// AtMost is an inclusive upper bound.
func AtMost(v float64) Range { return Range{lte: &v} }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }
