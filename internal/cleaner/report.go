package cleaner

import (
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 70)

// Reporter prints the human-readable progress of a cleanup run.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// Header prints the banner.
func (r *Reporter) Header() {
	r.printf("%s\nAnki Media Cleanup\n%s\n", rule, rule)
}

// Scanned reports the reference scan.
func (r *Reporter) Scanned(collection string, notes, refs int) {
	r.printf("Analyzing notes in %s...\n", collection)
	r.printf("  Found %d notes\n", notes)
	r.printf("  Found %d unique media references\n", refs)
}

// Listed reports the media folder scan.
func (r *Reporter) Listed(dir string, files int) {
	r.printf("\nScanning media directory: %s...\n", dir)
	r.printf("  Found %d files\n", files)
}

// Summary prints the three set sizes.
func (r *Reporter) Summary(referenced, actual, unreferenced int) {
	r.printf("\n%s\nSummary:\n", rule)
	r.printf("  Referenced media files: %d\n", referenced)
	r.printf("  Actual media files:     %d\n", actual)
	r.printf("  Unreferenced files:     %d\n", unreferenced)
	r.printf("%s\n", rule)
}

// NothingToDo reports an already clean folder.
func (r *Reporter) NothingToDo() {
	r.printf("\n✓ No unreferenced files to delete!\n")
}

// Candidates lists the first PreviewLimit names to be deleted.
func (r *Reporter) Candidates(names []string) {
	shown, more := Preview(names, PreviewLimit)
	r.printf("\nFiles to be deleted:\n")
	for _, n := range shown {
		r.printf("  %s\n", n)
	}
	if more > 0 {
		r.printf("  ... and %d more\n", more)
	}
}

// DryRun reports that nothing was changed.
func (r *Reporter) DryRun() {
	r.printf("\n✓ Dry run mode - no files deleted\n")
}

// Prompt asks for confirmation.
func (r *Reporter) Prompt() {
	r.printf("\nProceed with deletion? (yes/no): ")
}

// AutoConfirmed notes that --yes skipped the prompt.
func (r *Reporter) AutoConfirmed() {
	r.printf("\nAuto-confirming deletion (--yes flag used)\n")
}

// Aborted reports a declined prompt.
func (r *Reporter) Aborted() {
	r.printf("\nAborted.\n")
}

// Deleting announces the deletion phase.
func (r *Reporter) Deleting() {
	r.printf("\nDeleting unreferenced files...\n")
}

// DeleteFailed reports one file that could not be removed.
func (r *Reporter) DeleteFailed(name string, err error) {
	r.printf("  Error deleting %s: %v\n", name, err)
}

// Deleted reports how many files were removed.
func (r *Reporter) Deleted(n int) {
	r.printf("  Deleted %d files\n", n)
}

// Pruning announces the media index update.
func (r *Reporter) Pruning(db string, stale int) {
	r.printf("\nUpdating media database: %s...\n", db)
	if stale == 0 {
		r.printf("  No database entries to remove\n")
		return
	}
	r.printf("  Removing %d entries from media database\n", stale)
}

// Completed prints the closing summary.
func (r *Reporter) Completed(deleted int) {
	r.printf("\n✓ Cleanup completed successfully!\n")
	r.printf("  Files removed: %d\n", deleted)
}
