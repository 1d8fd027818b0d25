package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/mentordex/internal/db"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

const verifiedClause = "@verified:{true}"

// probeQuery is the fixed one-document text match used to test the index.
const probeQuery = "@name|title|bio:(mentor)"

// buildQuery is the single query builder for the ranked fetch and its count.
// Verification and filters are hard clauses; text adds a fuzzy match over
// name, title and bio OR'd with a prefix match on name.
func buildQuery(text string, filters filter.Expression) string {
	parts := []string{verifiedClause}
	if f := db.BuildFilter(filters); f != "" {
		parts = append(parts, f)
	}
	if t := textClause(db.Terms(text)); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}

func textClause(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	fuzzy := make([]string, len(terms))
	for i, t := range terms {
		fuzzy[i] = fuzz(t)
	}
	return fmt.Sprintf("(@name|title|bio:(%s) | @name:(%s))",
		strings.Join(fuzzy, " "), prefixTerms(terms))
}

// fuzz widens the allowed edit distance with term length: short terms must match
// exactly, so typos are only forgiven past a three-character stem.
func fuzz(term string) string {
	switch n := len([]rune(term)); {
	case n <= 3:
		return term
	case n <= 5:
		return "%" + term + "%"
	default:
		return "%%" + term + "%%"
	}
}

// prefixTerms matches every term exactly except the last, which is completed as a prefix.
func prefixTerms(terms []string) string {
	out := make([]string, len(terms))
	copy(out, terms)
	last := out[len(out)-1]
	if len([]rune(last)) >= 2 {
		out[len(out)-1] = last + "*"
	}
	return strings.Join(out, " ")
}

// namePrefixQuery matches verified mentors whose name completes prefix.
func namePrefixQuery(prefix string) string {
	terms := db.Terms(prefix)
	if len(terms) == 0 {
		return ""
	}
	return verifiedClause + " @name:(" + prefixTerms(terms) + ")"
}

// tagPrefixQuery matches verified mentors holding a tag value that starts with prefix.
func tagPrefixQuery(field filter.Field, prefix string) string {
	return verifiedClause + " @" + string(field) + ":{" + db.EscapeTag(strings.ToLower(prefix)) + "*}"
}
