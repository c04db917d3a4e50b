package document

import "math"

// Zoom bounds and step.
const (
	DefaultScale = 1.5
	MinScale     = 0.5
	MaxScale     = 3.0
	ZoomStep     = 1.2
)

// Viewer tracks the shown page and zoom scale of a document.
type Viewer struct {
	pages int
	page  int
	scale float64
}

// NewViewer returns a Viewer on page 1 at DefaultScale.
func NewViewer(pages int) *Viewer {
	return &Viewer{pages: max(pages, 1), page: 1, scale: DefaultScale}
}

// Page returns the current page, starting at 1.
func (v *Viewer) Page() int { return v.page }

// PageCount returns the number of pages.
func (v *Viewer) PageCount() int { return v.pages }

// Scale returns the zoom scale.
func (v *Viewer) Scale() float64 { return v.scale }

// ZoomPercent returns the scale as a rounded percentage.
func (v *Viewer) ZoomPercent() int { return int(math.Round(v.scale * 100)) }

// SetPage moves to n clamped to [1, PageCount] and reports whether the page
// changed.
func (v *Viewer) SetPage(n int) bool {
	n = min(max(n, 1), v.pages)
	if n == v.page {
		return false
	}
	v.page = n
	return true
}

// Next moves forward one page.
func (v *Viewer) Next() bool { return v.SetPage(v.page + 1) }

// Prev moves back one page.
func (v *Viewer) Prev() bool { return v.SetPage(v.page - 1) }

// ZoomIn multiplies the scale by ZoomStep up to MaxScale.
func (v *Viewer) ZoomIn() { v.scale = math.Min(v.scale*ZoomStep, MaxScale) }

// ZoomOut divides the scale by ZoomStep down to MinScale.
func (v *Viewer) ZoomOut() { v.scale = math.Max(v.scale/ZoomStep, MinScale) }

// ResetZoom restores DefaultScale.
func (v *Viewer) ResetZoom() { v.scale = DefaultScale }
