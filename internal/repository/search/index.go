package search

import "github.com/kailas-cloud/mentordex/internal/db"

// Text field weights: a name hit outranks a title hit, which outranks a bio hit.
const (
	nameWeight  = 3
	titleWeight = 2
)

// indexDefinition is the FT schema over mentor JSON documents.
// Aliases equal the filter.Field names so db.BuildFilter output applies unchanged.
func indexDefinition(name, keyPrefix string) *db.IndexDefinition {
	return db.NewIndex(name).
		OnJSON().
		Prefix(keyPrefix).
		WeightedText("$.name", nameWeight).As("name").
		WeightedText("$.title", titleWeight).As("title").
		Text("$.bio").As("bio").
		Tag("$.expertise_areas[*]").As("expertise_areas").
		Tag("$.skills[*]").As("skills").
		Tag("$.help_areas[*]").As("help_areas").
		Tag("$.verified").As("verified").
		Numeric("$.experience_years").As("experience_years").Sortable().
		Numeric("$.hourly_rate").As("hourly_rate").Sortable().
		Numeric("$.created_at").As("created_at").Sortable().
		MustBuild()
}
