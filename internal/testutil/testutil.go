// Package testutil provides shared fixtures: a throwaway collection
// database, a media index database and a media folder.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// The subset of Anki's schema the tools touch.
const (
	notesSchemaSQL = `CREATE TABLE notes (
	id    INTEGER PRIMARY KEY,
	mid   INTEGER NOT NULL DEFAULT 0,
	tags  TEXT NOT NULL DEFAULT '',
	flds  TEXT NOT NULL,
	sfld  TEXT NOT NULL DEFAULT ''
);`
	mediaSchemaSQL = `CREATE TABLE media (
	fname TEXT NOT NULL PRIMARY KEY,
	csum  TEXT,
	mtime INT NOT NULL DEFAULT 0,
	dirty INT NOT NULL DEFAULT 0
);`
)

func createDB(t *testing.T, path, schema string, fill func(*sql.DB)) {
	t.Helper()
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, err := conn.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	fill(conn)
}

// Collection creates a collection database in dir whose notes carry the
// given fields. Each element of notes is one note; its fields are joined with
// the 0x1f separator.
func Collection(t *testing.T, dir string, notes ...[]string) string {
	t.Helper()
	path := filepath.Join(dir, "collection.anki2")
	createDB(t, path, notesSchemaSQL, func(conn *sql.DB) {
		for i, fields := range notes {
			if _, err := conn.Exec(`INSERT INTO notes (id, flds) VALUES (?, ?)`, i+1, strings.Join(fields, "\x1f")); err != nil {
				t.Fatalf("insert note: %v", err)
			}
		}
	})
	return path
}

// MediaRow is one row of the media index. A nil Checksum stores NULL.
type MediaRow struct {
	Name     string
	Checksum *string
}

// Checksum returns a pointer to s for MediaRow literals.
func Checksum(s string) *string { return &s }

// MediaDB creates a media index database in dir with rows.
func MediaDB(t *testing.T, dir string, rows ...MediaRow) string {
	t.Helper()
	path := filepath.Join(dir, "collection.media.db2")
	createDB(t, path, mediaSchemaSQL, func(conn *sql.DB) {
		for _, r := range rows {
			if _, err := conn.Exec(`INSERT INTO media (fname, csum) VALUES (?, ?)`, r.Name, r.Checksum); err != nil {
				t.Fatalf("insert media row: %v", err)
			}
		}
	})
	return path
}

// MediaRows returns every fname in the media table at path.
func MediaRows(t *testing.T, path string) []string {
	t.Helper()
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	rows, err := conn.Query(`SELECT fname FROM media ORDER BY fname`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatal(err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

// MediaDir creates a collection.media folder in dir holding the named files.
func MediaDir(t *testing.T, dir string, names ...string) string {
	t.Helper()
	path := filepath.Join(dir, "collection.media")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(path, n), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

// Files returns the names currently in a media folder.
func Files(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}
