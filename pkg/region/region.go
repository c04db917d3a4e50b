// Package region copies a selected rectangle of a rendered page into an
// isolated image buffer suitable for OCR.
package region

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/germanamz/pdfask/pkg/selection"
	"golang.org/x/image/draw"
)

// Extract copies the pixels under r out of src. The returned image starts at
// the origin and shares no memory with src. It returns false when the
// rectangle, after normalization and clamping to src, is smaller than
// selection.MinSize in either dimension.
func Extract(src image.Image, r selection.Rect) (*image.RGBA, bool) {
	return ExtractMin(src, r, selection.MinSize)
}

// ExtractMin is Extract with an explicit size threshold.
func ExtractMin(src image.Image, r selection.Rect, minSize int) (*image.RGBA, bool) {
	if src == nil {
		return nil, false
	}

	rect := r.Bounds().Add(src.Bounds().Min).Intersect(src.Bounds())
	if rect.Dx() < minSize || rect.Dy() < minSize {
		return nil, false
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, src, rect, draw.Src, nil)

	return dst, true
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("region: encode png: %w", err)
	}

	return buf.Bytes(), nil
}
