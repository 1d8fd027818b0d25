package directory

import (
	"context"

	"github.com/kailas-cloud/mentordex/internal/domain/analytics"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

// Summary returns the verified-mentor count and the experience and hourly-rate ranges.
// Ranges are zero over an empty population.
func (r *Repo) Summary(ctx context.Context) (analytics.Snapshot, error) {
	var s analytics.Snapshot
	err := r.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(MIN(experience_years), 0), COALESCE(MAX(experience_years), 0), COALESCE(AVG(experience_years), 0),
			COALESCE(MIN(hourly_rate), 0), COALESCE(MAX(hourly_rate), 0), COALESCE(AVG(hourly_rate), 0)
		FROM mentors WHERE verified = 1`,
	).Scan(
		&s.TotalMentors,
		&s.Experience.Min, &s.Experience.Max, &s.Experience.Avg,
		&s.HourlyRate.Min, &s.HourlyRate.Max, &s.HourlyRate.Avg,
	)
	if err != nil {
		return analytics.Snapshot{}, storeErr("summary", err)
	}
	return s, nil
}

// Facets explodes a set field over verified mentors and counts each distinct value,
// ordered by count descending then value ascending. limit <= 0 means unbounded.
func (r *Repo) Facets(ctx context.Context, field filter.Field, limit int) ([]analytics.Facet, error) {
	col, ok := columns[field]
	if !ok || !field.IsSet() {
		return nil, storeErr("facets", errUnknownField(field))
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := r.db.QueryContext(ctx, `SELECT j.value, COUNT(DISTINCT m.id) AS n
		FROM mentors m, json_each(m.`+col+`) j
		WHERE m.verified = 1
		GROUP BY j.value
		ORDER BY n DESC, j.value ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, storeErr("facets "+col, err)
	}
	defer func() { _ = rows.Close() }()

	out := []analytics.Facet{}
	for rows.Next() {
		var f analytics.Facet
		if err := rows.Scan(&f.Value, &f.Count); err != nil {
			return nil, storeErr("scan facet", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate facets", err)
	}
	return out, nil
}

type errUnknownField filter.Field

func (e errUnknownField) Error() string { return "unknown set field " + string(e) }
