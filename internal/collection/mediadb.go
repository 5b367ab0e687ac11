package collection

import (
	"context"
	"database/sql"
	"fmt"
)

// MediaIndex is the media checksum database kept next to the collection.
type MediaIndex struct {
	conn *sql.DB
}

// OpenMediaIndex opens the media index database at path for writing.
func OpenMediaIndex(path string) (*MediaIndex, error) {
	conn, err := open(path, false)
	if err != nil {
		return nil, fmt.Errorf("media index: %w", err)
	}
	return &MediaIndex{conn: conn}, nil
}

// Close closes the underlying database connection.
func (m *MediaIndex) Close() error {
	return m.conn.Close()
}

// Filenames returns every indexed file that has a checksum. Rows with a
// NULL csum mark deletions pending sync and are not considered present.
func (m *MediaIndex) Filenames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := m.conn.QueryContext(ctx, `SELECT fname FROM media WHERE csum IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("media index: list: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("media index: scan: %w", err)
		}
		out[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("media index: iterate: %w", err)
	}
	return out, nil
}

// Delete removes the rows for names one by one inside a single transaction
// and commits once. An empty names slice performs no writes.
func (m *MediaIndex) Delete(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tx, err := m.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("media index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM media WHERE fname = ?`)
	if err != nil {
		return fmt.Errorf("media index: prepare delete: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name); err != nil {
			return fmt.Errorf("media index: delete %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("media index: commit: %w", err)
	}
	return nil
}
