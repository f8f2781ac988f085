package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DocStore is a SQLite-backed document store keyed by (project, collection).
// Collections are read and written whole; there is no partial-update API.
// It is not safe for concurrent writers: one process per project at a time.
type DocStore struct {
	conn *sql.DB
	path string
}

// OpenDocStore creates or opens the document store at the given path.
func OpenDocStore(dbPath string) (*DocStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DocStore{conn: conn, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (d *DocStore) Close() error {
	return d.conn.Close()
}

// Path returns the database file path.
func (d *DocStore) Path() string {
	return d.path
}

// ReadCollection returns the stored body for a collection, or nil if the
// collection has never been written.
func (d *DocStore) ReadCollection(project, name string) ([]byte, error) {
	row := d.conn.QueryRow(
		"SELECT body FROM collections WHERE project = ? AND name = ?",
		project, name,
	)
	var body []byte
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return body, nil
}

// WriteCollection replaces the stored body for a collection.
func (d *DocStore) WriteCollection(project, name string, body []byte) error {
	_, err := d.conn.Exec(
		`INSERT INTO collections (project, name, body, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(project, name) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		project, name, body,
	)
	return err
}
