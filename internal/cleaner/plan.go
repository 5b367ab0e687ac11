// Package cleaner removes media files that no note refers to any more and
// prunes the media index to match.
package cleaner

import (
	"context"

	"github.com/starford/ankitools/internal/media"
)

// PreviewLimit caps how many file names the report lists.
const PreviewLimit = 20

// NoteScanner yields the raw flds value of every note.
type NoteScanner interface {
	EachNoteFields(ctx context.Context, fn func(flds string) error) (int, error)
}

// Index is the media checksum table.
type Index interface {
	Filenames(ctx context.Context) (map[string]struct{}, error)
	Delete(ctx context.Context, names []string) error
}

// Referenced collects every local media name mentioned by any note and
// returns it with the number of notes scanned.
func Referenced(ctx context.Context, notes NoteScanner) (media.Set, int, error) {
	refs := make(media.Set)
	n, err := notes.EachNoteFields(ctx, func(flds string) error {
		media.ExtractFields(refs, flds)
		return nil
	})
	if err != nil {
		return nil, n, err
	}
	return refs, n, nil
}

// Unreferenced returns the files in actual that no note refers to, sorted.
func Unreferenced(actual, referenced media.Set) []string {
	return actual.Difference(referenced).Sorted()
}

// StaleRows returns the indexed names missing from referenced, sorted.
func StaleRows(indexed map[string]struct{}, referenced media.Set) []string {
	return media.Set(indexed).Difference(referenced).Sorted()
}

// Preview returns at most limit names and how many were left out.
func Preview(names []string, limit int) ([]string, int) {
	if len(names) <= limit {
		return names, 0
	}
	return names[:limit], len(names) - limit
}
