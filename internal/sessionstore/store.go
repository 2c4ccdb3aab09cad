// Package sessionstore mirrors the in-memory wizard session to a local SQLite
// file so an interrupted run can be inspected or resumed. The mirror is a
// cache of the session, never the source of truth; dropping the file loses
// nothing the user cannot redo.
package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// ErrNotFound is returned when no snapshot exists for the requested session.
var ErrNotFound = errors.New("sessionstore: snapshot not found")

// Snapshot is the serializable view of a session at one point in the flow.
type Snapshot struct {
	ID          string                   `json:"id"`
	State       string                   `json:"state"`
	Description string                   `json:"description"`
	Scope       wizard.Scope             `json:"scope"`
	Answers     map[string]schema.Answer `json:"answers"`
	PhotoCount  int                      `json:"photoCount"`
	SavedAt     time.Time                `json:"savedAt"`
}

// Capture builds a snapshot from a live navigator. Photo bytes stay out of
// the mirror; only the count is recorded.
func Capture(nav *wizard.Navigator) Snapshot {
	session := nav.Session()
	return Snapshot{
		ID:          session.ID().String(),
		State:       string(nav.State()),
		Description: session.Description,
		Scope:       session.Scope,
		Answers:     session.Store.Snapshot(),
		PhotoCount:  session.Slots.Count(),
		SavedAt:     time.Now().UTC(),
	}
}

// Store persists snapshots keyed by session id.
type Store struct {
	db *sql.DB
}

// Open creates or opens the mirror database at path and prepares its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: open %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sessionstore: %s: %w", pragma, err)
		}
	}
	const ddl = `
		CREATE TABLE IF NOT EXISTS snapshots (
			session_id  TEXT PRIMARY KEY,
			state       TEXT NOT NULL,
			description TEXT NOT NULL,
			scope       TEXT NOT NULL,
			answers     TEXT NOT NULL,
			photo_count INTEGER NOT NULL,
			saved_at    TEXT NOT NULL
		)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sessionstore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the snapshot under its session id.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	scope, err := json.Marshal(snap.Scope)
	if err != nil {
		return fmt.Errorf("sessionstore: encode scope: %w", err)
	}
	answers, err := json.Marshal(snap.Answers)
	if err != nil {
		return fmt.Errorf("sessionstore: encode answers: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (session_id, state, description, scope, answers, photo_count, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			state = excluded.state,
			description = excluded.description,
			scope = excluded.scope,
			answers = excluded.answers,
			photo_count = excluded.photo_count,
			saved_at = excluded.saved_at`,
		snap.ID, snap.State, snap.Description, string(scope), string(answers),
		snap.PhotoCount, snap.SavedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sessionstore: save %s: %w", snap.ID, err)
	}
	return nil
}

// Load retrieves the snapshot for one session id.
func (s *Store) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, state, description, scope, answers, photo_count, saved_at
		FROM snapshots WHERE session_id = ?`, sessionID)
	return scanSnapshot(row)
}

// Latest retrieves the most recently saved snapshot.
func (s *Store) Latest(ctx context.Context) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, state, description, scope, answers, photo_count, saved_at
		FROM snapshots ORDER BY saved_at DESC LIMIT 1`)
	return scanSnapshot(row)
}

// Delete removes the snapshot for one session id. Deleting a missing id is
// not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("sessionstore: delete %s: %w", sessionID, err)
	}
	return nil
}

func scanSnapshot(row *sql.Row) (Snapshot, error) {
	var (
		snap           Snapshot
		scope, answers string
		savedAt        string
	)
	err := row.Scan(&snap.ID, &snap.State, &snap.Description, &scope, &answers, &snap.PhotoCount, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("sessionstore: scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(scope), &snap.Scope); err != nil {
		return Snapshot{}, fmt.Errorf("sessionstore: decode scope: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &snap.Answers); err != nil {
		return Snapshot{}, fmt.Errorf("sessionstore: decode answers: %w", err)
	}
	if snap.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return Snapshot{}, fmt.Errorf("sessionstore: parse saved_at: %w", err)
	}
	return snap, nil
}
