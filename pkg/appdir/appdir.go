// Package appdir encapsulates all path knowledge for the application data
// directory. It provides a Dir value object with accessors for the config
// file, exports and logs.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Name is the directory created under the user config directory.
const Name = "pdfask"

// Dir is a value object that resolves paths within the app-data directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed; use EnsureStructure to create the
// directory layout.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Default returns the Dir under os.UserConfigDir.
func Default() (Dir, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Dir{}, fmt.Errorf("appdir: user config dir: %w", err)
	}

	return New(filepath.Join(base, Name)), nil
}

// Root returns the absolute path to the app-data directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the persisted configuration.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.json") }

// EnvPath returns the path to the optional .env file.
func (d Dir) EnvPath() string { return filepath.Join(d.root, ".env") }

// ExportsDir returns the directory chat exports are written to.
func (d Dir) ExportsDir() string { return filepath.Join(d.root, "exports") }

// LogPath returns the path to the desktop shell's log file.
func (d Dir) LogPath() string { return filepath.Join(d.root, "pdfask.log") }

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}

// EnsureStructure creates the root and exports directories. It is safe to
// call multiple times.
func (d Dir) EnsureStructure() error {
	if err := os.MkdirAll(d.ExportsDir(), 0o750); err != nil {
		return fmt.Errorf("appdir: create exports dir: %w", err)
	}

	return nil
}

// ExportFiles returns sorted paths of all exported chats (*.md, non-recursive).
// Returns nil if the directory does not exist.
func (d Dir) ExportFiles() []string {
	matches, err := filepath.Glob(filepath.Join(d.ExportsDir(), "*.md"))
	if err != nil || len(matches) == 0 {
		return nil
	}

	sort.Strings(matches)

	return matches
}
