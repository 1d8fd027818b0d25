// Package directory is the SQLite-backed primary mentor directory.
// It serves the fallback search plan, the analytics aggregation and user/session lookups.
package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/mentordex/internal/domain"
	"github.com/kailas-cloud/mentordex/internal/domain/mentor"
	"github.com/kailas-cloud/mentordex/internal/domain/search/filter"
)

const mentorColumns = `id, name, title, bio, expertise_areas, skills, help_areas,
	experience_years, hourly_rate, offers_free_intro, verified, created_at`

// Repo implements the directory ports of the search, analytics, global and mentor use cases.
type Repo struct {
	db *sql.DB
}

// New creates a directory repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Ping checks that the database answers.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping directory: %w", err)
	}
	return nil
}

// FindMentors returns one page of verified mentors matching text and filters,
// newest first. text is matched as a case-insensitive substring.
func (r *Repo) FindMentors(
	ctx context.Context, text string, filters filter.Expression, offset, limit int,
) ([]mentor.Mentor, error) {
	where, args := buildWhere(text, filters)
	query := `SELECT ` + mentorColumns + ` FROM mentors WHERE ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("find mentors", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]mentor.Mentor, 0, limit)
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			return nil, storeErr("scan mentor", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate mentors", err)
	}
	return out, nil
}

// CountMentors counts verified mentors matching the same predicate as FindMentors.
func (r *Repo) CountMentors(ctx context.Context, text string, filters filter.Expression) (int, error) {
	where, args := buildWhere(text, filters)

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mentors WHERE `+where, args...).Scan(&n); err != nil {
		return 0, storeErr("count mentors", err)
	}
	return n, nil
}

// GetMentor returns a mentor by ID regardless of verification.
func (r *Repo) GetMentor(ctx context.Context, id string) (mentor.Mentor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mentorColumns+` FROM mentors WHERE id = ?`, id)
	m, err := scanMentor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mentor.Mentor{}, fmt.Errorf("mentor %s: %w", id, domain.ErrNotFound)
		}
		return mentor.Mentor{}, storeErr("get mentor", err)
	}
	return m, nil
}

// ListMentors returns up to limit mentors (verified or not) with ID greater than afterID, by ID.
// Keyset paging keeps batches stable while the table changes underneath.
func (r *Repo) ListMentors(ctx context.Context, afterID string, limit int) ([]mentor.Mentor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mentorColumns+` FROM mentors WHERE id > ? ORDER BY id LIMIT ?`, afterID, limit)
	if err != nil {
		return nil, storeErr("list mentors", err)
	}
	defer func() { _ = rows.Close() }()

	var out []mentor.Mentor
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			return nil, storeErr("scan mentor", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate mentors", err)
	}
	return out, nil
}

// UpsertMentor inserts or replaces a mentor. A zero CreatedAt keeps the stored
// creation time, or uses now for new rows.
func (r *Repo) UpsertMentor(ctx context.Context, m *mentor.Mentor, now int64) error {
	expertise, err := encodeSet(m.ExpertiseAreas())
	if err != nil {
		return err
	}
	skills, err := encodeSet(m.Skills())
	if err != nil {
		return err
	}
	help, err := encodeSet(m.HelpAreas())
	if err != nil {
		return err
	}

	created := m.CreatedAt()
	insertCreated := created
	if insertCreated == 0 {
		insertCreated = now
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO mentors (
			id, name, title, bio, expertise_areas, skills, help_areas,
			experience_years, hourly_rate, offers_free_intro, verified, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			bio = excluded.bio,
			expertise_areas = excluded.expertise_areas,
			skills = excluded.skills,
			help_areas = excluded.help_areas,
			experience_years = excluded.experience_years,
			hourly_rate = excluded.hourly_rate,
			offers_free_intro = excluded.offers_free_intro,
			verified = excluded.verified,
			created_at = CASE WHEN ? > 0 THEN ? ELSE mentors.created_at END,
			updated_at = excluded.updated_at`,
		m.ID(), m.Name(), m.Title(), m.Bio(), expertise, skills, help,
		m.ExperienceYears(), m.HourlyRate(), m.OffersFreeIntro(), m.Verified(), insertCreated, now,
		created, created,
	)
	if err != nil {
		return storeErr("upsert mentor", err)
	}
	return nil
}

// DeleteMentor removes a mentor and its sessions.
func (r *Repo) DeleteMentor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mentors WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete mentor", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete mentor", err)
	}
	if n == 0 {
		return fmt.Errorf("mentor %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMentor(s scanner) (mentor.Mentor, error) {
	var (
		a                       mentor.Attrs
		expertise, skills, help string
	)
	err := s.Scan(
		&a.ID, &a.Name, &a.Title, &a.Bio, &expertise, &skills, &help,
		&a.ExperienceYears, &a.HourlyRate, &a.OffersFreeIntro, &a.Verified, &a.CreatedAt,
	)
	if err != nil {
		return mentor.Mentor{}, err
	}
	if a.ExpertiseAreas, err = decodeSet(expertise); err != nil {
		return mentor.Mentor{}, fmt.Errorf("expertise_areas of %s: %w", a.ID, err)
	}
	if a.Skills, err = decodeSet(skills); err != nil {
		return mentor.Mentor{}, fmt.Errorf("skills of %s: %w", a.ID, err)
	}
	if a.HelpAreas, err = decodeSet(help); err != nil {
		return mentor.Mentor{}, fmt.Errorf("help_areas of %s: %w", a.ID, err)
	}
	return mentor.Reconstruct(a), nil
}

func encodeSet(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode set: %w", err)
	}
	return string(b), nil
}

func decodeSet(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreFailure, op, err)
}
