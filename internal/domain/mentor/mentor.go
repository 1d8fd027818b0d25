package mentor

import (
	"fmt"
	"regexp"
	"strings"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Field limits.
const (
	MaxIDLength   = 128
	MaxNameLength = 200
	MaxBioLength  = 8192
	MaxSetSize    = 50
)

// Attrs is the flat attribute set of a mentor record, used to build and hydrate a Mentor.
type Attrs struct {
	ID              string
	Name            string
	Title           string
	Bio             string
	ExpertiseAreas  []string
	Skills          []string
	HelpAreas       []string
	ExperienceYears float64
	HourlyRate      float64
	OffersFreeIntro bool
	Verified        bool
	CreatedAt       int64 // unix millis
}

// Mentor is a directory record (immutable value object).
type Mentor struct {
	id              string
	name            string
	title           string
	bio             string
	expertiseAreas  []string
	skills          []string
	helpAreas       []string
	experienceYears float64
	hourlyRate      float64
	offersFreeIntro bool
	verified        bool
	createdAt       int64
}

// New validates and normalizes a mentor record.
// Set values are trimmed, empties dropped and duplicates removed (case-insensitive, first spelling wins).
func New(a Attrs) (Mentor, error) {
	if a.ID == "" {
		return Mentor{}, fmt.Errorf("mentor ID is required")
	}
	if len(a.ID) > MaxIDLength {
		return Mentor{}, fmt.Errorf("mentor ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(a.ID) {
		return Mentor{}, fmt.Errorf("mentor ID must be alphanumeric with underscores and hyphens")
	}
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return Mentor{}, fmt.Errorf("mentor name is required")
	}
	if len(name) > MaxNameLength {
		return Mentor{}, fmt.Errorf("mentor name too long (max %d)", MaxNameLength)
	}
	if len(a.Bio) > MaxBioLength {
		return Mentor{}, fmt.Errorf("bio too long (max %d bytes)", MaxBioLength)
	}
	if a.ExperienceYears < 0 {
		return Mentor{}, fmt.Errorf("experience must not be negative")
	}
	if a.HourlyRate < 0 {
		return Mentor{}, fmt.Errorf("hourly rate must not be negative")
	}
	if a.CreatedAt < 0 {
		return Mentor{}, fmt.Errorf("created_at must not be negative")
	}

	expertise, err := normalizeSet("expertise areas", a.ExpertiseAreas)
	if err != nil {
		return Mentor{}, err
	}
	skills, err := normalizeSet("skills", a.Skills)
	if err != nil {
		return Mentor{}, err
	}
	help, err := normalizeSet("help areas", a.HelpAreas)
	if err != nil {
		return Mentor{}, err
	}

	a.Name = name
	a.Title = strings.TrimSpace(a.Title)
	a.ExpertiseAreas = expertise
	a.Skills = skills
	a.HelpAreas = help
	return Reconstruct(a), nil
}

// Reconstruct creates a Mentor without validation (storage hydration).
func Reconstruct(a Attrs) Mentor {
	return Mentor{
		id:              a.ID,
		name:            a.Name,
		title:           a.Title,
		bio:             a.Bio,
		expertiseAreas:  a.ExpertiseAreas,
		skills:          a.Skills,
		helpAreas:       a.HelpAreas,
		experienceYears: a.ExperienceYears,
		hourlyRate:      a.HourlyRate,
		offersFreeIntro: a.OffersFreeIntro,
		verified:        a.Verified,
		createdAt:       a.CreatedAt,
	}
}

// ID returns the mentor identifier.
func (m *Mentor) ID() string { return m.id }

// Name returns the display name.
func (m *Mentor) Name() string { return m.name }

// Title returns the professional title.
func (m *Mentor) Title() string { return m.title }

// Bio returns the free-text biography.
func (m *Mentor) Bio() string { return m.bio }

// ExpertiseAreas returns the expertise area set.
func (m *Mentor) ExpertiseAreas() []string { return m.expertiseAreas }

// Skills returns the skill set.
func (m *Mentor) Skills() []string { return m.skills }

// HelpAreas returns the help area set.
func (m *Mentor) HelpAreas() []string { return m.helpAreas }

// ExperienceYears returns years of experience.
func (m *Mentor) ExperienceYears() float64 { return m.experienceYears }

// HourlyRate returns the hourly rate.
func (m *Mentor) HourlyRate() float64 { return m.hourlyRate }

// OffersFreeIntro reports whether the mentor offers a free intro call.
func (m *Mentor) OffersFreeIntro() bool { return m.offersFreeIntro }

// Verified reports whether the mentor passed verification. Only verified mentors are searchable.
func (m *Mentor) Verified() bool { return m.verified }

// CreatedAt returns the creation time in unix millis.
func (m *Mentor) CreatedAt() int64 { return m.createdAt }

// Attrs returns a copy of the record attributes.
func (m *Mentor) Attrs() Attrs {
	return Attrs{
		ID:              m.id,
		Name:            m.name,
		Title:           m.title,
		Bio:             m.bio,
		ExpertiseAreas:  cloneStrings(m.expertiseAreas),
		Skills:          cloneStrings(m.skills),
		HelpAreas:       cloneStrings(m.helpAreas),
		ExperienceYears: m.experienceYears,
		HourlyRate:      m.hourlyRate,
		OffersFreeIntro: m.offersFreeIntro,
		Verified:        m.verified,
		CreatedAt:       m.createdAt,
	}
}

// WithText returns a copy with name, title and bio replaced.
func (m *Mentor) WithText(name, title, bio string) Mentor {
	c := *m
	c.name, c.title, c.bio = name, title, bio
	return c
}

func normalizeSet(what string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	if len(out) > MaxSetSize {
		return nil, fmt.Errorf("too many %s (max %d)", what, MaxSetSize)
	}
	return out, nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
