// Package fallback persists incidents queued by a same-host alternate code
// path so a poller can pick them up even when the HTTP egress is unreachable.
// It is the server-side analog of the browser's pending_webhooks key: pushes
// accumulate, and each processing pass drains everything it finds.
package fallback

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"orbis-relay/internal/webhook"
)

type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the pending-incident store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening fallback store: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS pending_webhooks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payload TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing fallback schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Push appends an incident to the pending list.
func (s *Store) Push(inc *webhook.Incident) error {
	payload, err := json.Marshal(inc)
	if err != nil {
		return fmt.Errorf("marshalling incident: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO pending_webhooks(payload, created_at) VALUES(?, ?)`,
		string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing pending incident: %w", err)
	}
	return nil
}

// Drain returns every pending incident in insertion order and clears the
// list, both inside one transaction so a concurrent Push is never lost.
func (s *Store) Drain() ([]webhook.Incident, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting drain: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT payload FROM pending_webhooks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("reading pending incidents: %w", err)
	}
	defer rows.Close()

	var out []webhook.Incident
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning pending incident: %w", err)
		}
		var inc webhook.Incident
		if err := json.Unmarshal([]byte(payload), &inc); err != nil {
			// A corrupt row should not wedge the channel; skip it.
			continue
		}
		out = append(out, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending incidents: %w", err)
	}
	rows.Close()

	if _, err := tx.Exec(`DELETE FROM pending_webhooks`); err != nil {
		return nil, fmt.Errorf("clearing pending incidents: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing drain: %w", err)
	}
	return out, nil
}
