// Package server hosts the reference claims server: a SQLite-backed store
// behind the same HTTP API the CLI's sync client speaks, including the SSE
// notification stream and an optional AI classification proxy.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/autoseat/claimlens/internal/model"
)

// Store persists the authoritative claim set. The whole set is replaced on
// every upload, mirroring how the CLI pushes: last writer wins.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed initializes) the database at path. The
// special path ":memory:" keeps everything in memory.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids lock errors.
	db.SetMaxOpenConns(1)

	schema := `
CREATE TABLE IF NOT EXISTS claims (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_claims_updated_at ON claims(updated_at);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// All returns every claim in insertion order
func (s *Store) All() ([]model.CleanedClaim, error) {
	return s.query(`SELECT payload FROM claims ORDER BY rowid`)
}

// Since returns claims updated strictly after the given timestamp
func (s *Store) Since(since string) ([]model.CleanedClaim, error) {
	return s.query(`SELECT payload FROM claims WHERE updated_at > ? ORDER BY rowid`, since)
}

func (s *Store) query(stmt string, args ...any) ([]model.CleanedClaim, error) {
	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer func() { _ = rows.Close() }()

	claims := []model.CleanedClaim{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		var claim model.CleanedClaim
		if err := json.Unmarshal([]byte(payload), &claim); err != nil {
			return nil, fmt.Errorf("decode claim: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// ReplaceAll swaps the full claim set for the uploaded one. Claims without
// an updatedAt get the current time backfilled. Returns the new dataset
// version and the maximum updatedAt across the stored claims.
func (s *Store) ReplaceAll(claims []model.CleanedClaim) (version, lastUpdated string, err error) {
	now := time.Now().UTC()
	version = fmt.Sprintf("%x", now.UnixMilli())
	nowStamp := now.Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return "", "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM claims`); err != nil {
		return "", "", fmt.Errorf("clear claims: %w", err)
	}

	for _, claim := range claims {
		if claim.UpdatedAt == "" {
			claim.UpdatedAt = nowStamp
		}
		if claim.UpdatedAt > lastUpdated {
			lastUpdated = claim.UpdatedAt
		}

		payload, marshalErr := json.Marshal(claim)
		if marshalErr != nil {
			err = fmt.Errorf("encode claim %s: %w", claim.ID, marshalErr)
			return "", "", err
		}
		if _, err = tx.Exec(
			`INSERT INTO claims (id, payload, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
			claim.ID, string(payload), claim.UpdatedAt,
		); err != nil {
			return "", "", fmt.Errorf("insert claim %s: %w", claim.ID, err)
		}
	}

	if lastUpdated == "" {
		lastUpdated = nowStamp
	}

	for key, value := range map[string]string{"version": version, "lastUpdated": lastUpdated} {
		if _, err = tx.Exec(
			`INSERT INTO meta (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			return "", "", fmt.Errorf("store meta %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", "", fmt.Errorf("commit upload: %w", err)
	}
	return version, lastUpdated, nil
}

// Meta returns the current dataset version and last update timestamp;
// both are empty on a fresh database
func (s *Store) Meta() (version, lastUpdated string, err error) {
	rows, err := s.db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return "", "", fmt.Errorf("query meta: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return "", "", fmt.Errorf("scan meta: %w", err)
		}
		switch key {
		case "version":
			version = value
		case "lastUpdated":
			lastUpdated = value
		}
	}
	return version, lastUpdated, rows.Err()
}
