package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Default file names inside an Anki profile directory.
const (
	CollectionFile = "collection.anki2"
	MediaDirName   = "collection.media"
	MediaDBFile    = "collection.media.db2"
)

// Config represents the application configuration shared by both tools.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Connect    ConnectConfig     `yaml:"connect"`
	Viewer     ViewerConfig      `yaml:"viewer"`
	Collection CollectionConfig  `yaml:"collection"`
}

// Validate validates the configuration. The collection section is only
// checked by the cleaner, which is the sole consumer of it.
func (c *Config) Validate() error {
	return c.Connect.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ConnectConfig locates the AnkiConnect add-on endpoint.
type ConnectConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

// URL returns the endpoint URL.
func (c *ConnectConfig) URL() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate validates the AnkiConnect configuration.
func (c *ConnectConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// ViewerConfig controls how notes are rendered.
//
// MediaDir, when set, makes local <img> sources resolve against the media
// folder. TempDir overrides the directory the HTML file is written to.
// Open=false writes the page without launching a browser.
type ViewerConfig struct {
	Open     bool   `yaml:"open"`
	MediaDir string `yaml:"media_dir"`
	Sanitize bool   `yaml:"sanitize"`
	TempDir  string `yaml:"temp_dir"`
}

// CollectionConfig locates the collection database, the media folder and the
// media index. Empty paths are derived from Dir.
type CollectionConfig struct {
	Dir      string `yaml:"dir"`
	Path     string `yaml:"path"`
	MediaDir string `yaml:"media_dir"`
	MediaDB  string `yaml:"media_db"`
}

// Resolve fills empty paths from Dir.
func (c *CollectionConfig) Resolve() {
	if c.Dir == "" {
		return
	}
	if c.Path == "" {
		c.Path = filepath.Join(c.Dir, CollectionFile)
	}
	if c.MediaDir == "" {
		c.MediaDir = filepath.Join(c.Dir, MediaDirName)
	}
	if c.MediaDB == "" {
		c.MediaDB = filepath.Join(c.Dir, MediaDBFile)
	}
}

// Validate resolves derived paths and checks that all three are known.
func (c *CollectionConfig) Validate() error {
	c.Resolve()
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.MediaDir, validation.Required),
		validation.Field(&c.MediaDB, validation.Required),
	); err != nil {
		return fmt.Errorf("collection: %w (set collection.dir or each path)", err)
	}
	if c.Path == c.MediaDB {
		return errors.New("collection: path and media_db must differ")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Connect: ConnectConfig{
			Host:    "localhost",
			Port:    8765,
			Timeout: 30 * time.Second,
		},
		Viewer: ViewerConfig{
			Open: true,
		},
	}
}
