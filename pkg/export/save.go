package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/i18n"
)

// Save renders turns with opts and writes them to dir under FileName. It
// returns the written path.
func Save(dir string, turns []message.Message, l i18n.Labels, now time.Time, opts Options) (string, error) {
	data, err := Render(turns, l, now, opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}

	path := filepath.Join(dir, FileName(now, opts.Format))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("export: write: %w", err)
	}

	return path, nil
}

// FormatFor picks the format from a file extension, Markdown when the
// extension is not recognized.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	case ".txt":
		return FormatText
	default:
		return FormatMarkdown
	}
}

// WriteFile renders turns in the format implied by path and writes them
// there.
func WriteFile(path string, turns []message.Message, l i18n.Labels, now time.Time, frontMatter bool) error {
	data, err := Render(turns, l, now, Options{Format: FormatFor(path), FrontMatter: frontMatter})
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}

	return nil
}
