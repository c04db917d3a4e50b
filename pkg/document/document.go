// Package document opens PDF files and rasterizes their pages with MuPDF.
package document

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// BaseDPI is the PDF user-space resolution; a scale of 1 renders at 72 DPI.
const BaseDPI = 72

var (
	// ErrNoPages is returned when a document has no pages.
	ErrNoPages = errors.New("document: no pages")
	// ErrPageRange is returned for a page outside [1, PageCount].
	ErrPageRange = errors.New("document: page out of range")
)

// Document is an open PDF. Pages are numbered from 1.
type Document struct {
	doc   *fitz.Document
	pages int
	title string
}

// Open parses PDF bytes.
func Open(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("document: open: %w", err)
	}

	n := doc.NumPage()
	if n < 1 {
		_ = doc.Close()
		return nil, ErrNoPages
	}

	d := &Document{doc: doc, pages: n}
	if meta := doc.Metadata(); meta != nil {
		d.title = strings.TrimSpace(meta["title"])
	}

	return d, nil
}

// OpenFile reads and opens the PDF at path.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("document: read: %w", err)
	}

	return Open(data)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

// Title returns the title from the PDF metadata, if any.
func (d *Document) Title() string { return d.title }

// Render rasterizes page at BaseDPI*scale.
func (d *Document) Render(page int, scale float64) (*image.RGBA, error) {
	if page < 1 || page > d.pages {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, page, d.pages)
	}

	img, err := d.doc.ImageDPI(page-1, BaseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("document: render page %d: %w", page, err)
	}

	return img, nil
}

// Close releases the MuPDF document.
func (d *Document) Close() error {
	if err := d.doc.Close(); err != nil {
		return fmt.Errorf("document: close: %w", err)
	}
	return nil
}
