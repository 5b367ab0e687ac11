package collection

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ankitools/internal/testutil"
)

func TestEachNoteFields(t *testing.T) {
	dir := t.TempDir()
	path := testutil.Collection(t, dir,
		[]string{`<img src="a.jpg">`, "back"},
		[]string{"front", "[sound:b.mp3]"},
	)
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var got []string
	n, err := db.EachNoteFields(context.Background(), func(flds string) error {
		got = append(got, flds)
		return nil
	})
	if err != nil {
		t.Fatalf("EachNoteFields: %v", err)
	}
	if n != 2 || len(got) != 2 {
		t.Fatalf("count = %d, got %v", n, got)
	}
	if got[0] != "<img src=\"a.jpg\">\x1fback" {
		t.Errorf("flds[0] = %q", got[0])
	}
}

func TestEachNoteFields_StopsOnError(t *testing.T) {
	path := testutil.Collection(t, t.TempDir(), []string{"a"}, []string{"b"})
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	stop := errors.New("stop")
	n, err := db.EachNoteFields(context.Background(), func(string) error { return stop })
	if !errors.Is(err, stop) || n != 1 {
		t.Errorf("n = %d, err = %v", n, err)
	}
}

func TestOpen_ReadOnly(t *testing.T) {
	path := testutil.Collection(t, t.TempDir(), []string{"a"})
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if _, err := db.conn.Exec(`DELETE FROM notes`); err == nil {
		t.Error("collection handle should be read-only")
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.anki2")); err == nil {
		t.Error("expected error opening a missing collection read-only")
	}
}

func TestOpen_PathWithSpecialChars(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "User #1 100%")
	if err := mkdir(dir); err != nil {
		t.Fatal(err)
	}
	path := testutil.Collection(t, dir, []string{"x"})
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	n, err := db.EachNoteFields(context.Background(), func(string) error { return nil })
	if err != nil || n != 1 {
		t.Errorf("n = %d, err = %v", n, err)
	}
}

func TestMediaIndex_FilenamesSkipsNullChecksum(t *testing.T) {
	path := testutil.MediaDB(t, t.TempDir(),
		testutil.MediaRow{Name: "a.jpg", Checksum: testutil.Checksum("aa")},
		testutil.MediaRow{Name: "gone.jpg"},
	)
	idx, err := OpenMediaIndex(path)
	if err != nil {
		t.Fatalf("OpenMediaIndex: %v", err)
	}
	defer idx.Close()

	names, err := idx.Filenames(context.Background())
	if err != nil {
		t.Fatalf("Filenames: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("names = %v", names)
	}
	if _, ok := names["a.jpg"]; !ok {
		t.Errorf("a.jpg missing from %v", names)
	}
}

func TestMediaIndex_Delete(t *testing.T) {
	path := testutil.MediaDB(t, t.TempDir(),
		testutil.MediaRow{Name: "a.jpg", Checksum: testutil.Checksum("1")},
		testutil.MediaRow{Name: "b.jpg", Checksum: testutil.Checksum("2")},
		testutil.MediaRow{Name: "c.jpg", Checksum: testutil.Checksum("3")},
	)
	idx, err := OpenMediaIndex(path)
	if err != nil {
		t.Fatalf("OpenMediaIndex: %v", err)
	}
	if err := idx.Delete(context.Background(), []string{"a.jpg", "c.jpg", "never-there.jpg"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	idx.Close()

	rows := testutil.MediaRows(t, path)
	if len(rows) != 1 || rows[0] != "b.jpg" {
		t.Errorf("rows = %v", rows)
	}
}

func TestMediaIndex_DeleteNothing(t *testing.T) {
	path := testutil.MediaDB(t, t.TempDir(), testutil.MediaRow{Name: "a.jpg", Checksum: testutil.Checksum("1")})
	idx, err := OpenMediaIndex(path)
	if err != nil {
		t.Fatalf("OpenMediaIndex: %v", err)
	}
	defer idx.Close()
	if err := idx.Delete(context.Background(), nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rows := testutil.MediaRows(t, path); len(rows) != 1 {
		t.Errorf("rows = %v", rows)
	}
}

func mkdir(p string) error { return os.MkdirAll(p, 0o755) }

func TestOpenMediaIndex_DoesNotCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.media.db2")
	if _, err := OpenMediaIndex(path); err == nil {
		t.Fatal("expected error for missing media index")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("media index file should not have been created")
	}
}

func TestMediaIndex_FilenamesWrapsScanError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.media.db2")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`CREATE TABLE media (fname TEXT, csum TEXT); INSERT INTO media VALUES (NULL, 'abc');`); err != nil {
		t.Fatal(err)
	}
	conn.Close()

	idx, err := OpenMediaIndex(path)
	if err != nil {
		t.Fatalf("OpenMediaIndex: %v", err)
	}
	defer idx.Close()
	_, err = idx.Filenames(context.Background())
	if err == nil || !strings.Contains(err.Error(), "media index: scan") {
		t.Errorf("err = %v", err)
	}
}
