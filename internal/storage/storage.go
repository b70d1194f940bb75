// Package storage implements the append-only workflow log and session
// index described by spec §4.8/§6: each recording is one newline-
// delimited event-codec file (C1's wire format) plus a row in a small
// SQLite index used to make `list` fast without re-reading every file.
//
// Grounded on the teacher's internal/config.Manager for the
// load/save-under-mutex shape, generalized from a single JSON file to a
// directory of per-session logs plus a database/sql index — the addition
// a config manager doesn't need but a growing session archive does.
package storage

import (
	"bufio"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/louis030195/bigbrother/internal/event"
)

// Session is one recording's metadata, as kept in the index.
type Session struct {
	ID         string
	Name       string
	StartedAt  time.Time
	EventCount int
	Path       string
}

// Store owns a directory of per-session jsonl logs and the SQLite index
// over their metadata.
type Store struct {
	dir string

	mu sync.Mutex
	db *sql.DB
}

// Open creates dir if needed and opens (creating if absent) the session
// index at dir/index.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("storage: open index: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	event_count INTEGER NOT NULL DEFAULT 0,
	path        TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: init schema: %w", err)
	}

	return &Store{dir: dir, db: db}, nil
}

// Close releases the index database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// sessionPath returns the jsonl log path for a session ID.
func (s *Store) sessionPath(id string) string {
	return filepath.Join(s.dir, id+".jsonl")
}

// CreateAppendSink opens a new per-session log file and registers it in
// the index, ready to receive events via AppendSink.Append.
func (s *Store) CreateAppendSink(id, name string, startedAt time.Time) (*AppendSink, error) {
	path := s.sessionPath(id)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: create session log: %w", err)
	}

	s.mu.Lock()
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, name, started_at, event_count, path) VALUES (?, ?, ?, 0, ?)`,
		id, name, startedAt.UnixMilli(), path,
	)
	s.mu.Unlock()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: index session: %w", err)
	}

	return &AppendSink{store: s, id: id, f: f, w: bufio.NewWriter(f)}, nil
}

// AppendSink is the append-only sink that the recorder's bus drains into
// (C9's AppendFunc), guaranteed exactly one Append call per event, in
// order.
type AppendSink struct {
	store *Store
	id    string

	mu    sync.Mutex
	f     *os.File
	w     *bufio.Writer
	count int
}

// Append encodes and writes one event, per spec §4.1's codec.
func (a *AppendSink) Append(e event.Event) error {
	line, err := event.Encode(e)
	if err != nil {
		return fmt.Errorf("storage: encode event: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.w.Write(line); err != nil {
		return fmt.Errorf("storage: write event: %w", err)
	}
	if err := a.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("storage: write newline: %w", err)
	}
	a.count++
	return nil
}

// Close flushes the log to disk, updates the session's event count in
// the index, and closes the file.
func (a *AppendSink) Close() error {
	a.mu.Lock()
	count := a.count
	flushErr := a.w.Flush()
	closeErr := a.f.Close()
	a.mu.Unlock()

	a.store.mu.Lock()
	_, dbErr := a.store.db.Exec(`UPDATE sessions SET event_count = ? WHERE id = ?`, count, a.id)
	a.store.mu.Unlock()

	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return closeErr
	}
	return dbErr
}

// List returns every recorded session, most recent first.
func (s *Store) List() ([]Session, error) {
	s.mu.Lock()
	rows, err := s.db.Query(`SELECT id, name, started_at, event_count, path FROM sessions ORDER BY started_at DESC`)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("storage: list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var startedAtMS int64
		if err := rows.Scan(&sess.ID, &sess.Name, &startedAtMS, &sess.EventCount, &sess.Path); err != nil {
			return nil, fmt.Errorf("storage: scan session row: %w", err)
		}
		sess.StartedAt = time.UnixMilli(startedAtMS)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Get looks up a single session's metadata by ID.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	row := s.db.QueryRow(`SELECT id, name, started_at, event_count, path FROM sessions WHERE id = ?`, id)
	s.mu.Unlock()

	var sess Session
	var startedAtMS int64
	if err := row.Scan(&sess.ID, &sess.Name, &startedAtMS, &sess.EventCount, &sess.Path); err != nil {
		return Session{}, fmt.Errorf("storage: session %q not found: %w", id, err)
	}
	sess.StartedAt = time.UnixMilli(startedAtMS)
	return sess, nil
}

// Load reads a session's full event log from disk.
func (s *Store) Load(id string) (event.LoadResult, error) {
	sess, err := s.Get(id)
	if err != nil {
		return event.LoadResult{}, err
	}

	f, err := os.Open(sess.Path)
	if err != nil {
		return event.LoadResult{}, fmt.Errorf("storage: open session log: %w", err)
	}
	defer f.Close()

	return event.Load(f)
}

// Delete removes a session's log file and index row.
func (s *Store) Delete(id string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := os.Remove(sess.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove session log: %w", err)
	}

	s.mu.Lock()
	_, err = s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("storage: remove index row: %w", err)
	}
	return nil
}
