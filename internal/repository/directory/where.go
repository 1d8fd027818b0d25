package directory

import (
	"strings"

	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

// columns maps filter fields to mentor columns. Only listed fields reach SQL.
var columns = map[filter.Field]string{
	filter.FieldExpertiseAreas:  "expertise_areas",
	filter.FieldSkills:          "skills",
	filter.FieldHelpAreas:       "help_areas",
	filter.FieldExperienceYears: "experience_years",
	filter.FieldHourlyRate:      "hourly_rate",
}

// textSetColumns are the set columns a free-text query also matches.
var textSetColumns = []string{"expertise_areas", "skills"}

// buildWhere is the single predicate builder for FindMentors and CountMentors.
// Verification is always required; set conditions match case-insensitively;
// text is a case-insensitive substring over name, title, bio and the expertise/skill values.
func buildWhere(text string, filters filter.Expression) (string, []any) {
	clauses := []string{"verified = 1"}
	var args []any

	for _, cond := range filters.Conditions() {
		col, ok := columns[cond.Field()]
		if !ok {
			continue
		}
		switch {
		case cond.IsAnyOf():
			values := cond.AnyOf()
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
			clauses = append(clauses,
				`EXISTS (SELECT 1 FROM json_each(mentors.`+col+`) WHERE LOWER(json_each.value) IN (`+placeholders+`))`)
			for _, v := range values {
				args = append(args, strings.ToLower(v))
			}
		case cond.IsRange():
			rc, ra := rangeClauses(col, *cond.Range())
			clauses = append(clauses, rc...)
			args = append(args, ra...)
		}
	}

	if text != "" {
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		ors := []string{
			`LOWER(name) LIKE ? ESCAPE '\'`,
			`LOWER(title) LIKE ? ESCAPE '\'`,
			`LOWER(bio) LIKE ? ESCAPE '\'`,
		}
		args = append(args, pattern, pattern, pattern)
		for _, col := range textSetColumns {
			ors = append(ors,
				`EXISTS (SELECT 1 FROM json_each(mentors.`+col+`) WHERE LOWER(json_each.value) LIKE ? ESCAPE '\')`)
			args = append(args, pattern)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	return strings.Join(clauses, " AND "), args
}

func rangeClauses(col string, r filter.Range) ([]string, []any) {
	var clauses []string
	var args []any
	if r.GTE() != nil {
		clauses = append(clauses, col+" >= ?")
		args = append(args, *r.GTE())
	}
	if r.LTE() != nil {
		clauses = append(clauses, col+" <= ?")
		args = append(args, *r.LTE())
	}
	return clauses, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes every character of s literal inside a LIKE pattern with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
