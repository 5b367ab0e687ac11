package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ankitools/internal"
	pkgconfig "github.com/starford/ankitools/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	col := &cfg.Collection
	if cmd.IsSet("profile-dir") {
		col.Dir = cmd.String("profile-dir")
	}
	if cmd.IsSet("collection") {
		col.Path = cmd.String("collection")
	}
	if cmd.IsSet("media-dir") {
		col.MediaDir = cmd.String("media-dir")
	}
	if cmd.IsSet("media-db") {
		col.MediaDB = cmd.String("media-db")
	}
	if cmd.Bool("verbose") {
		cfg.App.LogLevel = slog.LevelDebug
	}

	opts := internal.CleanOptions{
		DryRun: cmd.Bool("dry-run"),
		Yes:    cmd.Bool("yes"),
	}
	if err := internal.RunClean(ctx, opts, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "ankiclean",
		Usage:  "Clean unused media files from an Anki collection",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("ANKI_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip confirmation prompt and proceed with deletion",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would be deleted without actually deleting",
			},
			&cli.StringFlag{
				Name:    "profile-dir",
				Usage:   "Anki profile directory holding collection.anki2, collection.media and collection.media.db2",
				Sources: cli.EnvVars("ANKI_PROFILE_DIR"),
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "Path to collection.anki2 (overrides --profile-dir)",
			},
			&cli.StringFlag{
				Name:  "media-dir",
				Usage: "Path to the collection.media folder (overrides --profile-dir)",
			},
			&cli.StringFlag{
				Name:  "media-db",
				Usage: "Path to collection.media.db2 (overrides --profile-dir)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
