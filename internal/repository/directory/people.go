package directory

import (
	"context"
	"strings"

	"github.com/kailas-cloud/mentordex/internal/domain/session"
	"github.com/kailas-cloud/mentordex/internal/domain/user"
)

// SearchUsers returns users whose name contains text (case-insensitive), newest first.
func (r *Repo) SearchUsers(ctx context.Context, text string, offset, limit int) ([]user.User, error) {
	where, args := likeWhere(text, "name")
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, role, created_at FROM users WHERE `+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, storeErr("search users", err)
	}
	defer func() { _ = rows.Close() }()

	out := []user.User{}
	for rows.Next() {
		var u user.User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &role, &u.CreatedAt); err != nil {
			return nil, storeErr("scan user", err)
		}
		u.Role = user.Role(role)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate users", err)
	}
	return out, nil
}

// CountUsers counts users matching the SearchUsers predicate.
func (r *Repo) CountUsers(ctx context.Context, text string) (int, error) {
	where, args := likeWhere(text, "name")
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&n); err != nil {
		return 0, storeErr("count users", err)
	}
	return n, nil
}

// SearchSessions returns sessions whose title or description contains text, newest first.
func (r *Repo) SearchSessions(ctx context.Context, text string, offset, limit int) ([]session.Session, error) {
	where, args := likeWhere(text, "title", "description")
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, mentor_id, status, scheduled_at, created_at FROM sessions WHERE `+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, storeErr("search sessions", err)
	}
	defer func() { _ = rows.Close() }()

	out := []session.Session{}
	for rows.Next() {
		var s session.Session
		var status string
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.MentorID, &status, &s.ScheduledAt, &s.CreatedAt); err != nil {
			return nil, storeErr("scan session", err)
		}
		s.Status = session.Status(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate sessions", err)
	}
	return out, nil
}

// CountSessions counts sessions matching the SearchSessions predicate.
func (r *Repo) CountSessions(ctx context.Context, text string) (int, error) {
	where, args := likeWhere(text, "title", "description")
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE `+where, args...).Scan(&n); err != nil {
		return 0, storeErr("count sessions", err)
	}
	return n, nil
}

// UpsertUser inserts or replaces a user.
func (r *Repo) UpsertUser(ctx context.Context, u *user.User) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, name, role, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role`,
		u.ID, u.Name, string(u.Role), u.CreatedAt)
	if err != nil {
		return storeErr("upsert user", err)
	}
	return nil
}

// UpsertSession inserts or replaces a session. The mentor must exist.
func (r *Repo) UpsertSession(ctx context.Context, s *session.Session) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions
			(id, title, description, mentor_id, status, scheduled_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			mentor_id = excluded.mentor_id,
			status = excluded.status,
			scheduled_at = excluded.scheduled_at`,
		s.ID, s.Title, s.Description, s.MentorID, string(s.Status), s.ScheduledAt, s.CreatedAt)
	if err != nil {
		return storeErr("upsert session", err)
	}
	return nil
}

// likeWhere ORs an escaped case-insensitive substring match over cols. Empty text matches all rows.
func likeWhere(text string, cols ...string) (string, []any) {
	if text == "" {
		return "1 = 1", nil
	}
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	ors := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		ors[i] = `LOWER(` + c + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return "(" + strings.Join(ors, " OR ") + ")", args
}
