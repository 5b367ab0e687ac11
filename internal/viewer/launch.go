package viewer

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
)

// OpenFunc opens a URL in the user's browser.
type OpenFunc func(url string) error

// Launcher writes rendered pages to temp files and opens them.
type Launcher struct {
	dir  string
	open OpenFunc
}

// NewLauncher creates a launcher writing into dir ("" means the system temp
// dir). A nil open uses the platform's default browser.
func NewLauncher(dir string, open OpenFunc) *Launcher {
	if open == nil {
		open = browser.OpenURL
	}
	return &Launcher{dir: dir, open: open}
}

// Write stores page in a new uniquely named .html file and returns its
// absolute path. The file is left in place for the browser to read.
func (l *Launcher) Write(page []byte) (string, error) {
	f, err := os.CreateTemp(l.dir, "ankiview-*.html")
	if err != nil {
		return "", fmt.Errorf("viewer: create temp file: %w", err)
	}
	if _, err := f.Write(page); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("viewer: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("viewer: close temp file: %w", err)
	}
	abs, err := filepath.Abs(f.Name())
	if err != nil {
		return "", fmt.Errorf("viewer: resolve temp file: %w", err)
	}
	return abs, nil
}

// Launch writes page and opens it as a file:// URL without waiting for the
// browser. The path is returned even when opening fails.
func (l *Launcher) Launch(page []byte) (string, error) {
	path, err := l.Write(page)
	if err != nil {
		return "", err
	}
	if err := l.open(FileURL(path)); err != nil {
		return path, fmt.Errorf("viewer: open browser: %w", err)
	}
	return path, nil
}

// FileURL converts an absolute path to a file:// URL.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
