package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	dommentor "github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/session"
	"github.com/kailas-cloud/mentordex/internal/domain/user"
)

// importFile is the YAML seed format accepted by the import command.
type importFile struct {
	Mentors  []mentorRecord  `yaml:"mentors"`
	Users    []userRecord    `yaml:"users"`
	Sessions []sessionRecord `yaml:"sessions"`
}

type mentorRecord struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Title           string   `yaml:"title"`
	Bio             string   `yaml:"bio"`
	ExpertiseAreas  []string `yaml:"expertise_areas"`
	Skills          []string `yaml:"skills"`
	HelpAreas       []string `yaml:"help_areas"`
	ExperienceYears float64  `yaml:"experience_years"`
	HourlyRate      float64  `yaml:"hourly_rate"`
	OffersFreeIntro bool     `yaml:"offers_free_intro"`
	Verified        bool     `yaml:"verified"`
}

type userRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type sessionRecord struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	MentorID    string    `yaml:"mentor_id"`
	Status      string    `yaml:"status"`
	ScheduledAt time.Time `yaml:"scheduled_at"`
}

func readImportFile(path string) (importFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return importFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return parseImportFile(data)
}

// parseImportFile decodes the seed file and assigns random UUIDs to records without an id.
func parseImportFile(data []byte) (importFile, error) {
	var f importFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return importFile{}, fmt.Errorf("parse import file: %w", err)
	}
	for i := range f.Mentors {
		f.Mentors[i].ID = idOrNew(f.Mentors[i].ID)
	}
	for i := range f.Users {
		f.Users[i].ID = idOrNew(f.Users[i].ID)
	}
	for i := range f.Sessions {
		f.Sessions[i].ID = idOrNew(f.Sessions[i].ID)
	}
	return f, nil
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func (r *mentorRecord) attrs() dommentor.Attrs {
	return dommentor.Attrs{
		ID:              r.ID,
		Name:            r.Name,
		Title:           r.Title,
		Bio:             r.Bio,
		ExpertiseAreas:  r.ExpertiseAreas,
		Skills:          r.Skills,
		HelpAreas:       r.HelpAreas,
		ExperienceYears: r.ExperienceYears,
		HourlyRate:      r.HourlyRate,
		OffersFreeIntro: r.OffersFreeIntro,
		Verified:        r.Verified,
	}
}

func (r *userRecord) user(now time.Time) (user.User, error) {
	role := user.Role(r.Role)
	if role == "" {
		role = user.RoleMentee
	}
	switch role {
	case user.RoleMentee, user.RoleMentor, user.RoleAdmin:
	default:
		return user.User{}, fmt.Errorf("user %s: unknown role %q", r.ID, r.Role)
	}
	if r.Name == "" {
		return user.User{}, fmt.Errorf("user %s: name is required", r.ID)
	}
	return user.User{ID: r.ID, Name: r.Name, Role: role, CreatedAt: now.UnixMilli()}, nil
}

func (r *sessionRecord) session(now time.Time) (session.Session, error) {
	status := session.Status(r.Status)
	if status == "" {
		status = session.StatusScheduled
	}
	switch status {
	case session.StatusScheduled, session.StatusCompleted, session.StatusCancelled:
	default:
		return session.Session{}, fmt.Errorf("session %s: unknown status %q", r.ID, r.Status)
	}
	if r.Title == "" || r.MentorID == "" {
		return session.Session{}, fmt.Errorf("session %s: title and mentor_id are required", r.ID)
	}
	return session.Session{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		MentorID:    r.MentorID,
		Status:      status,
		ScheduledAt: r.ScheduledAt.UnixMilli(),
		CreatedAt:   now.UnixMilli(),
	}, nil
}
