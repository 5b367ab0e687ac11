// Package internal wires configuration, logging and the domain packages
// into the entry points of the command-line tools.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/ankitools/internal/ankiconnect"
	"github.com/starford/ankitools/internal/apperr"
	"github.com/starford/ankitools/internal/cleaner"
	"github.com/starford/ankitools/internal/collection"
	"github.com/starford/ankitools/internal/storage"
	"github.com/starford/ankitools/internal/viewer"
)

// CleanOptions are the per-invocation switches of the media cleaner.
type CleanOptions struct {
	DryRun bool
	Yes    bool
}

func (a *application) init() (*slog.Logger, error) {
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	// Structured JSON logs go to stderr; stdout carries the tool's output.
	logger := slog.New(slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger, nil
}

func (a *application) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.stdout, format, args...)
}

func (a *application) viewerService(logger *slog.Logger) *viewer.Service {
	cfg := a.config.Connect
	logger.Debug("Configuration loaded",
		slog.String("ankiconnect_url", cfg.URL()),
		slog.Duration("timeout", cfg.Timeout),
		slog.String("log_level", a.config.App.LogLevel.String()))
	return viewer.NewService(ankiconnect.New(cfg.URL(), cfg.Timeout))
}

func (a *application) reportFetchError(logger *slog.Logger, err error) {
	if errors.Is(err, apperr.ErrUnavailable) {
		logger.Error("Error connecting to Anki",
			slog.String("error", err.Error()),
			slog.String("hint", "make sure Anki is running and the AnkiConnect add-on is installed"))
	}
}

// RunView fetches one note, renders it and opens it in the browser.
func RunView(ctx context.Context, noteID int64, opts ...Option) error {
	app := newApplication(opts)
	logger, err := app.init()
	if err != nil {
		return err
	}
	cfg := app.config

	note, err := app.viewerService(logger).Note(ctx, noteID)
	if err != nil {
		app.reportFetchError(logger, err)
		app.printf("Failed to retrieve note data\n")
		return fmt.Errorf("fetch note: %w", err)
	}

	page, err := viewer.NewRenderer(viewer.RenderOptions{
		MediaDir: cfg.Viewer.MediaDir,
		Sanitize: cfg.Viewer.Sanitize,
	}).Render(note)
	if err != nil {
		return err
	}

	launcher := viewer.NewLauncher(cfg.Viewer.TempDir, app.open)
	if !cfg.Viewer.Open {
		path, err := launcher.Write(page)
		if err != nil {
			return err
		}
		app.printf("Note written to: %s\n", path)
		return nil
	}

	path, err := launcher.Launch(page)
	if err != nil {
		if path != "" {
			app.printf("Temporary file created at: %s\n", path)
		}
		return err
	}
	logger.Debug("note opened", slog.Int64("note_id", noteID), slog.String("path", path))
	app.printf("Opened note in browser. Temporary file created at: %s\n", path)
	return nil
}

// RunList prints the id and first line of every note matching query.
func RunList(ctx context.Context, query string, opts ...Option) error {
	app := newApplication(opts)
	logger, err := app.init()
	if err != nil {
		return err
	}

	notes, err := app.viewerService(logger).List(ctx, query)
	if err != nil {
		app.reportFetchError(logger, err)
		return fmt.Errorf("list notes: %w", err)
	}
	for _, n := range notes {
		app.printf("%d\t%s\n", n.ID, n.Preview)
	}
	logger.Debug("notes listed", slog.Int("count", len(notes)))
	return nil
}

// RunClean deletes unreferenced media files and prunes the media index.
func RunClean(ctx context.Context, copts CleanOptions, opts ...Option) error {
	app := newApplication(opts)
	logger, err := app.init()
	if err != nil {
		return err
	}
	col := &app.config.Collection
	if err := col.Validate(); err != nil {
		return err
	}

	logger.Debug("Configuration loaded",
		slog.String("collection", col.Path),
		slog.String("media_dir", col.MediaDir),
		slog.String("media_db", col.MediaDB),
		slog.Bool("dry_run", copts.DryRun),
		slog.Bool("yes", copts.Yes))

	notes, err := collection.Open(col.Path)
	if err != nil {
		return err
	}
	defer notes.Close()

	files, err := storage.NewFS(col.MediaDir)
	if err != nil {
		return err
	}

	index, err := collection.OpenMediaIndex(col.MediaDB)
	if err != nil {
		return err
	}
	defer index.Close()

	c := cleaner.New(cleaner.Deps{
		Notes:  notes,
		Files:  files,
		Index:  index,
		Stdin:  app.stdin,
		Stdout: app.stdout,
		Logger: logger,
	})
	res, err := c.Run(ctx, cleaner.Options{
		DryRun:         copts.DryRun,
		Yes:            copts.Yes,
		CollectionName: col.Path,
		MediaDirName:   files.Root(),
		IndexName:      col.MediaDB,
	})
	if err != nil {
		return err
	}

	logger.Info("cleanup finished",
		slog.String("outcome", res.Outcome.String()),
		slog.Int("deleted", len(res.Deleted)),
		slog.Int("failed", len(res.Failed)),
		slog.Int("index_removed", len(res.IndexRemoved)))
	return nil
}
