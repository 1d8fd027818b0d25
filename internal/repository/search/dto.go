package search

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
)

// mentorDoc is the JSON document stored per indexed mentor.
// verified is a string so the TAG field can match {true}.
type mentorDoc struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Bio             string   `json:"bio"`
	ExpertiseAreas  []string `json:"expertise_areas"`
	Skills          []string `json:"skills"`
	HelpAreas       []string `json:"help_areas"`
	ExperienceYears float64  `json:"experience_years"`
	HourlyRate      float64  `json:"hourly_rate"`
	OffersFreeIntro bool     `json:"offers_free_intro"`
	Verified        string   `json:"verified"`
	CreatedAt       int64    `json:"created_at"`
}

func toDoc(m *mentor.Mentor) mentorDoc {
	return mentorDoc{
		ID:              m.ID(),
		Name:            m.Name(),
		Title:           m.Title(),
		Bio:             m.Bio(),
		ExpertiseAreas:  nonNil(m.ExpertiseAreas()),
		Skills:          nonNil(m.Skills()),
		HelpAreas:       nonNil(m.HelpAreas()),
		ExperienceYears: m.ExperienceYears(),
		HourlyRate:      m.HourlyRate(),
		OffersFreeIntro: m.OffersFreeIntro(),
		Verified:        strconv.FormatBool(m.Verified()),
		CreatedAt:       m.CreatedAt(),
	}
}

func (d *mentorDoc) toMentor() mentor.Mentor {
	return mentor.Reconstruct(mentor.Attrs{
		ID:              d.ID,
		Name:            d.Name,
		Title:           d.Title,
		Bio:             d.Bio,
		ExpertiseAreas:  nilIfEmpty(d.ExpertiseAreas),
		Skills:          nilIfEmpty(d.Skills),
		HelpAreas:       nilIfEmpty(d.HelpAreas),
		ExperienceYears: d.ExperienceYears,
		HourlyRate:      d.HourlyRate,
		OffersFreeIntro: d.OffersFreeIntro,
		Verified:        d.Verified == "true",
		CreatedAt:       d.CreatedAt,
	})
}

// parseDoc decodes the "$" field of a search entry. JSON.GET-style results
// wrap the document in a one-element array.
func parseDoc(raw string) (mentorDoc, error) {
	var doc mentorDoc
	if len(raw) > 0 && raw[0] == '[' {
		var docs []mentorDoc
		if err := json.Unmarshal([]byte(raw), &docs); err != nil {
			return mentorDoc{}, fmt.Errorf("decode mentor document: %w", err)
		}
		if len(docs) == 0 {
			return mentorDoc{}, fmt.Errorf("decode mentor document: empty array")
		}
		return docs[0], nil
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return mentorDoc{}, fmt.Errorf("decode mentor document: %w", err)
	}
	return doc, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
