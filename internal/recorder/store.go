// internal/recorder/store.go
package recorder

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Sample is one probe reading.
type Sample struct {
	At    time.Time
	Name  string
	Value float64
}

// Store is the sqlite telemetry database.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("recorder path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// BeginSession registers a new recording session.
func (s *Store) BeginSession(ctx context.Context, id string, started time.Time) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_ns) VALUES (?, ?)`,
		id, started.UnixNano())
	return err
}

// Write stores one batch of samples atomically.
func (s *Store) Write(ctx context.Context, session string, batch []Sample) error {
	if len(batch) == 0 {
		return nil
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (session, at_ns, name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, smp := range batch {
		if _, err := stmt.ExecContext(ctx, session, smp.At.UnixNano(), smp.Name, smp.Value); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Samples returns one probe's readings for a session in time order.
func (s *Store) Samples(ctx context.Context, session, name string) ([]Sample, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT at_ns, value FROM samples
		WHERE session = ? AND name = ?
		ORDER BY at_ns
	`, session, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var ns int64
		var v float64
		if err := rows.Scan(&ns, &v); err != nil {
			return nil, err
		}
		out = append(out, Sample{At: time.Unix(0, ns), Name: name, Value: v})
	}
	return out, rows.Err()
}

// Sessions lists session ids, oldest first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY started_ns`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_ns INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS samples (
			session TEXT NOT NULL,
			at_ns INTEGER NOT NULL,
			name TEXT NOT NULL,
			value REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS samples_by_name ON samples (session, name, at_ns);
	`)
	return err
}
