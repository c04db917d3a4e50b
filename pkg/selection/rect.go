package selection

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// MinSize is the smallest width or height, in pixels, of a selection that is
// worth running OCR on. Anything smaller is treated as a click.
const MinSize = 10

// ErrRectSyntax is returned by ParseRect for input that is not four numbers.
var ErrRectSyntax = errors.New("selection: rectangle must be x1,y1,x2,y2")

// Rect is a selection rectangle in surface-local pixel coordinates. Start is
// where the pointer went down, End where it currently is (or was released).
type Rect struct {
	StartX, StartY float64
	EndX, EndY     float64
	Active         bool
}

// Normalize returns the left/top corner and the size of r regardless of the
// drag direction.
func (r Rect) Normalize() (left, top, width, height float64) {
	left = math.Min(r.StartX, r.EndX)
	top = math.Min(r.StartY, r.EndY)
	width = math.Abs(r.EndX - r.StartX)
	height = math.Abs(r.EndY - r.StartY)

	return left, top, width, height
}

// Bounds returns r as an integer rectangle. Fractional edges are truncated the
// way a canvas pixel read truncates them.
func (r Rect) Bounds() image.Rectangle {
	left, top, width, height := r.Normalize()
	x0, y0 := int(left), int(top)

	return image.Rect(x0, y0, x0+int(width), y0+int(height))
}

// Degenerate reports whether r is below minSize in either dimension.
func (r Rect) Degenerate(minSize float64) bool {
	_, _, width, height := r.Normalize()

	return width < minSize || height < minSize
}

// ParseRect parses "x1,y1,x2,y2" into a completed rectangle.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, ErrRectSyntax
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("%w: invalid coordinate %q", ErrRectSyntax, p)
		}
		v[i] = f
	}

	return Rect{StartX: v[0], StartY: v[1], EndX: v[2], EndY: v[3]}, nil
}
