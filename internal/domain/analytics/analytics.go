package analytics

// Facet list sizes. Zero means unbounded.
const (
	ExpertiseAreaFacetLimit = 20
	SkillFacetLimit         = 30
	HelpAreaFacetLimit      = 0
)

// Facet is one distinct set value with the number of verified mentors holding it.
type Facet struct {
	Value string
	Count int
}

// Range holds min/max/avg of a numeric attribute. All zero over an empty population.
type Range struct {
	Min float64
	Max float64
	Avg float64
}

// Snapshot is the directory-wide facet and range summary over verified mentors.
type Snapshot struct {
	TotalMentors   int
	ExpertiseAreas []Facet
	Skills         []Facet
	HelpAreas      []Facet
	Experience     Range
	HourlyRate     Range
}
