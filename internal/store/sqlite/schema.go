// Package sqlite provides a SQLite-backed store.Store with optional FTS5 goal search.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/goalpost/internal/store"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS goals (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	priority      TEXT NOT NULL,
	priority_rank INTEGER NOT NULL DEFAULT 0,
	category      TEXT NOT NULL DEFAULT '',
	owner_id      TEXT NOT NULL DEFAULT '',
	tags          TEXT NOT NULL DEFAULT '[]',
	target_date   TEXT NOT NULL DEFAULT '',
	deleted       INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	doc           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	goal_id    TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL,
	doc        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS checkpoints (
	id          TEXT PRIMARY KEY,
	goal_id     TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
	recorded_at TEXT NOT NULL,
	doc         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_goals_status ON goals(status);
CREATE INDEX IF NOT EXISTS idx_goals_owner ON goals(owner_id);
CREATE INDEX IF NOT EXISTS idx_tasks_goal ON tasks(goal_id);
CREATE INDEX IF NOT EXISTS idx_checkpoints_goal ON checkpoints(goal_id, recorded_at);
`

// timeLayout is fixed-width so lexical order in SQLite equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// Store is a store.Store over a single SQLite database.
type Store struct {
	conn *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: apply fts schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
