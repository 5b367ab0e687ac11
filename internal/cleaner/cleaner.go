package cleaner

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/ankitools/internal/media"
	"github.com/starford/ankitools/internal/storage"
)

// Outcome says how a run ended.
type Outcome int

const (
	// OutcomeClean means every file in the folder is referenced.
	OutcomeClean Outcome = iota
	// OutcomeDryRun means candidates were reported and nothing changed.
	OutcomeDryRun
	// OutcomeAborted means the user declined the prompt.
	OutcomeAborted
	// OutcomeCompleted means files were deleted and the index was pruned.
	OutcomeCompleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeAborted:
		return "aborted"
	case OutcomeCompleted:
		return "completed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Options control a run.
type Options struct {
	// DryRun reports candidates without touching the folder or the index.
	DryRun bool
	// Yes skips the confirmation prompt.
	Yes bool
	// CollectionName, MediaDirName and IndexName label the sources in the report.
	CollectionName string
	MediaDirName   string
	IndexName      string
}

// Result describes what a run found and did.
type Result struct {
	Outcome      Outcome
	NotesScanned int
	Referenced   media.Set
	Actual       media.Set
	Unreferenced []string
	Deleted      []string
	Failed       map[string]error
	IndexRemoved []string
}

// Cleaner ties the note scan, the media folder and the media index together.
type Cleaner struct {
	notes  NoteScanner
	files  storage.Provider
	index  Index
	in     io.Reader
	report *Reporter
	logger *slog.Logger
}

// Deps are the collaborators of a Cleaner.
type Deps struct {
	Notes  NoteScanner
	Files  storage.Provider
	Index  Index
	Stdin  io.Reader
	Stdout io.Writer
	Logger *slog.Logger
}

// New creates a cleaner.
func New(d Deps) *Cleaner {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := d.Stdout
	if out == nil {
		out = io.Discard
	}
	return &Cleaner{
		notes:  d.Notes,
		files:  d.Files,
		index:  d.Index,
		in:     d.Stdin,
		report: NewReporter(out),
		logger: logger,
	}
}

// Run scans, reports and, once confirmed, deletes unreferenced files and
// then prunes the media index against the referenced set. Pruning has no
// prompt of its own: it always runs and commits after the file deletion
// step, and never runs on the clean, dry-run or aborted paths.
func (c *Cleaner) Run(ctx context.Context, opts Options) (*Result, error) {
	c.report.Header()

	referenced, scanned, err := Referenced(ctx, c.notes)
	if err != nil {
		return nil, fmt.Errorf("cleaner: scan notes: %w", err)
	}
	c.report.Scanned(opts.CollectionName, scanned, len(referenced))

	names, err := c.files.List()
	if err != nil {
		return nil, fmt.Errorf("cleaner: scan media: %w", err)
	}
	actual := media.NewSet(names...)
	c.report.Listed(opts.MediaDirName, len(actual))

	res := &Result{
		NotesScanned: scanned,
		Referenced:   referenced,
		Actual:       actual,
		Unreferenced: Unreferenced(actual, referenced),
		Failed:       map[string]error{},
	}
	c.logger.Debug("cleaner: scan complete",
		slog.Int("notes", scanned),
		slog.Int("referenced", len(referenced)),
		slog.Int("actual", len(actual)),
		slog.Int("unreferenced", len(res.Unreferenced)))

	c.report.Summary(len(referenced), len(actual), len(res.Unreferenced))
	if len(res.Unreferenced) == 0 {
		c.report.NothingToDo()
		res.Outcome = OutcomeClean
		return res, nil
	}

	c.report.Candidates(res.Unreferenced)
	if opts.DryRun {
		c.report.DryRun()
		res.Outcome = OutcomeDryRun
		return res, nil
	}

	if opts.Yes {
		c.report.AutoConfirmed()
	} else {
		c.report.Prompt()
		ok, err := Confirm(ctx, c.in)
		if err != nil {
			return nil, fmt.Errorf("cleaner: read confirmation: %w", err)
		}
		if !ok {
			c.report.Aborted()
			res.Outcome = OutcomeAborted
			return res, nil
		}
	}

	c.deleteFiles(res)

	if err := c.pruneIndex(ctx, opts.IndexName, res); err != nil {
		return res, err
	}

	c.report.Completed(len(res.Deleted))
	res.Outcome = OutcomeCompleted
	return res, nil
}

// deleteFiles removes every unreferenced file, carrying on past failures.
func (c *Cleaner) deleteFiles(res *Result) {
	c.report.Deleting()
	for _, name := range res.Unreferenced {
		if err := c.files.Delete(name); err != nil {
			c.logger.Warn("cleaner: delete failed", slog.String("file", name), slog.String("error", err.Error()))
			c.report.DeleteFailed(name, err)
			res.Failed[name] = err
			continue
		}
		c.logger.Debug("cleaner: deleted", slog.String("file", name))
		res.Deleted = append(res.Deleted, name)
	}
	c.report.Deleted(len(res.Deleted))
}

func (c *Cleaner) pruneIndex(ctx context.Context, name string, res *Result) error {
	indexed, err := c.index.Filenames(ctx)
	if err != nil {
		return fmt.Errorf("cleaner: read media index: %w", err)
	}
	stale := StaleRows(indexed, res.Referenced)
	c.report.Pruning(name, len(stale))
	if err := c.index.Delete(ctx, stale); err != nil {
		return fmt.Errorf("cleaner: prune media index: %w", err)
	}
	res.IndexRemoved = stale
	return nil
}
