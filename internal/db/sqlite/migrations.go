package sqlite

// migrations is the ordered schema history. Version N is migrations[N-1];
// all statements of a version run in one transaction.
var migrations = [][]string{
	// 1: directory tables
	{
		`CREATE TABLE mentors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			expertise_areas TEXT NOT NULL DEFAULT '[]',
			skills TEXT NOT NULL DEFAULT '[]',
			help_areas TEXT NOT NULL DEFAULT '[]',
			experience_years REAL NOT NULL DEFAULT 0,
			hourly_rate REAL NOT NULL DEFAULT 0,
			offers_free_intro BOOLEAN NOT NULL DEFAULT FALSE,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX idx_mentors_verified_created ON mentors (verified, created_at DESC, id DESC)`,
		`CREATE INDEX idx_mentors_experience ON mentors (experience_years)`,
		`CREATE INDEX idx_mentors_rate ON mentors (hourly_rate)`,

		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX idx_users_created ON users (created_at DESC, id DESC)`,

		`CREATE TABLE sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			mentor_id TEXT NOT NULL REFERENCES mentors(id) ON DELETE CASCADE,
			status TEXT NOT NULL,
			scheduled_at INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX idx_sessions_created ON sessions (created_at DESC, id DESC)`,
		`CREATE INDEX idx_sessions_mentor ON sessions (mentor_id)`,
	},
}
