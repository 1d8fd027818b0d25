package suggest

import "fmt"

// MinPrefixLength is the shortest prefix that reaches a backend.
const MinPrefixLength = 2

// Kind selects what a suggestion completes.
type Kind string

// Suggestion kinds.
const (
	KindMentorName    Kind = "mentorName"
	KindSkill         Kind = "skill"
	KindExpertiseArea Kind = "expertiseArea"
)

// ParseKind validates a kind, defaulting to KindMentorName when empty.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if k == "" {
		return KindMentorName, nil
	}
	if !k.IsValid() {
		return "", fmt.Errorf("unknown suggestion type %q", s)
	}
	return k, nil
}

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == KindMentorName || k == KindSkill || k == KindExpertiseArea
}

// Limit is the maximum number of suggestions returned for the kind.
func (k Kind) Limit() int {
	switch k {
	case KindMentorName:
		return 5
	case KindSkill, KindExpertiseArea:
		return 8
	default:
		return 0
	}
}

// Item is a single suggestion. Mentor suggestions carry ID, Name, Title and ExpertiseAreas;
// value suggestions carry ID (the value itself), Name and Count.
type Item struct {
	ID             string
	Name           string
	Title          string
	ExpertiseAreas []string
	Count          int
}
