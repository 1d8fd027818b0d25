package db

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

// BuildFilter translates a filter.Expression into an FT query clause.
// Field names are used as index identifiers, so the index must alias its fields accordingly.
// Returns "" for an empty expression.
func BuildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, len(expr.Conditions()))
	for _, cond := range expr.Conditions() {
		switch {
		case cond.IsAnyOf():
			parts = append(parts, TagFilter(string(cond.Field()), cond.AnyOf()...))
		case cond.IsRange():
			parts = append(parts, NumericFilter(string(cond.Field()), *cond.Range()))
		}
	}
	return strings.Join(parts, " ")
}

// TagFilter matches documents whose tag field holds any of values: @key:{a|b}.
func TagFilter(key string, values ...string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = EscapeTag(v)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, " | "))
}

// NumericFilter matches documents whose numeric field lies in r: @key:[min max].
func NumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GTE() != nil {
		minBound = fmt.Sprintf("%g", *r.GTE())
	}
	if r.LTE() != nil {
		maxBound = fmt.Sprintf("%g", *r.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

// EscapeTag escapes a value for use inside a TAG {...} clause.
func EscapeTag(s string) string {
	return tagEscaper.Replace(s)
}

// Terms splits free text into lowercase word tokens, dropping all punctuation.
// Tokens never contain query syntax, so they are safe to splice into an FT query.
func Terms(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return fields
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)
