// Package tesseract implements ocr.Engine on top of the Tesseract library.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/germanamz/pdfask/pkg/region"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages is the mixed Simplified Chinese and English model.
var DefaultLanguages = []string{"chi_sim", "eng"}

// minHeight is the shorter side, in pixels, below which a region is
// upscaled before recognition. Tesseract does poorly on tiny glyphs.
const minHeight = 150

// Engine recognizes text with a fresh gosseract client per call, so it is safe
// for concurrent use.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// New creates an Engine for the given languages, DefaultLanguages when none
// are given.
func New(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	return &Engine{
		languages:     languages,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize implements ocr.Engine.
func (e *Engine) Recognize(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prepared, err := prepare(data)
	if err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close() //nolint:errcheck

	if err := c.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("tesseract: set languages: %w", err)
	}

	if err := c.SetImageFromBytes(prepared); err != nil {
		return "", fmt.Errorf("tesseract: set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: recognize: %w", err)
	}

	return text, nil
}

// prepare decodes data and upscales it when the region is small.
func prepare(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tesseract: decode image: %w", err)
	}

	scaled := region.Upscale(img, minHeight)
	if scaled == img {
		return data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("tesseract: encode image: %w", err)
	}

	return buf.Bytes(), nil
}
