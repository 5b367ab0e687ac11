package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ankitools/internal"
	pkgconfig "github.com/starford/ankitools/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("host") {
		cfg.Connect.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Connect.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("media-dir") {
		cfg.Viewer.MediaDir = cmd.String("media-dir")
	}
	if cmd.Bool("no-open") {
		cfg.Viewer.Open = false
	}
	if cmd.Bool("verbose") {
		cfg.App.LogLevel = slog.LevelDebug
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func view(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("expected exactly one NOTE_ID argument, got %d", cmd.NArg())
	}
	noteID, err := strconv.ParseInt(cmd.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note id %q: %w", cmd.Args().First(), err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunView(ctx, noteID, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("view note %d: %w", noteID, err)
	}
	return nil
}

func list(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunList(ctx, cmd.Args().First(), internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "ankiview",
		Usage:     "View Anki notes in your web browser",
		ArgsUsage: "NOTE_ID",
		Action:    view,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("ANKI_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "AnkiConnect host",
				Value:   "localhost",
				Sources: cli.EnvVars("ANKI_CONNECT_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "AnkiConnect port",
				Value:   8765,
				Sources: cli.EnvVars("ANKI_CONNECT_PORT"),
			},
			&cli.StringFlag{
				Name:  "media-dir",
				Usage: "Resolve local images against this collection.media folder",
			},
			&cli.BoolFlag{
				Name:  "no-open",
				Usage: "Write the HTML file without opening a browser",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List notes matching an Anki search query",
				ArgsUsage: "[QUERY]",
				Action:    list,
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
