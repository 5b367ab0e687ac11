// Package collection reads an Anki collection database and maintains its
// media index database (collection.media.db2).
package collection

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB is a read-only handle on the collection database.
type DB struct {
	conn *sql.DB
}

// dsn builds a go-sqlite3 URI for path. Anki owns these files, so the
// journal mode is left alone and a missing file is never created.
func dsn(path string, readOnly bool) string {
	q := url.Values{}
	q.Set("_busy_timeout", "5000")
	q.Set("mode", "rw")
	if readOnly {
		q.Set("mode", "ro")
	}
	return "file:" + uriPathEscaper.Replace(path) + "?" + q.Encode()
}

// uriPathEscaper escapes the characters SQLite treats specially in a URI path.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

func open(path string, readOnly bool) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", dsn(path, readOnly))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return conn, nil
}

// Open opens the collection database at path read-only.
func Open(path string) (*DB, error) {
	conn, err := open(path, true)
	if err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// EachNoteFields calls fn with the raw flds value of every note. Iteration
// stops at the first error fn returns.
func (db *DB) EachNoteFields(ctx context.Context, fn func(flds string) error) (int, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT flds FROM notes`)
	if err != nil {
		return 0, fmt.Errorf("collection: query notes: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var flds string
		if err := rows.Scan(&flds); err != nil {
			return count, fmt.Errorf("collection: scan note: %w", err)
		}
		count++
		if err := fn(flds); err != nil {
			return count, err
		}
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("collection: iterate notes: %w", err)
	}
	return count, nil
}
