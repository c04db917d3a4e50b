package selection

import "image"

// Tracker is the drag state machine behind the page surface. The zero value
// uses [MinSize]; it is not safe for concurrent use and is meant to be driven
// from a single UI event loop.
type Tracker struct {
	// MinSize overrides the degenerate-rectangle threshold when positive.
	MinSize float64

	rect Rect
}

func (t *Tracker) minSize() float64 {
	if t.MinSize > 0 {
		return t.MinSize
	}

	return MinSize
}

// PointerDown starts a new selection at (x, y). Any selection in progress is
// replaced.
func (t *Tracker) PointerDown(x, y float64) {
	t.rect = Rect{StartX: x, StartY: y, EndX: x, EndY: y, Active: true}
}

// PointerMove updates the moving corner while a selection is active and
// reports whether the overlay needs a redraw. Moving to the same point twice
// has the same effect as moving once.
func (t *Tracker) PointerMove(x, y float64) bool {
	if !t.rect.Active {
		return false
	}

	t.rect.EndX, t.rect.EndY = x, y

	return true
}

// PointerUp finishes the active selection. It returns the completed rectangle
// and true when it should be extracted, or false when nothing was active or
// the rectangle is degenerate.
func (t *Tracker) PointerUp() (Rect, bool) {
	if !t.rect.Active {
		return Rect{}, false
	}

	done := t.rect
	done.Active = false
	t.rect = Rect{}

	if done.Degenerate(t.minSize()) {
		return Rect{}, false
	}

	return done, true
}

// PointerLeave cancels an active selection because the pointer left the
// surface. It reports whether anything was cancelled.
func (t *Tracker) PointerLeave() bool {
	if !t.rect.Active {
		return false
	}

	t.rect = Rect{}

	return true
}

// Active reports whether a drag is in progress.
func (t *Tracker) Active() bool { return t.rect.Active }

// Current returns the in-progress rectangle.
func (t *Tracker) Current() Rect { return t.rect }

// Overlay returns the rectangle to draw over the page, or false when nothing
// should be drawn.
func (t *Tracker) Overlay() (image.Rectangle, bool) {
	if !t.rect.Active {
		return image.Rectangle{}, false
	}

	return t.rect.Bounds(), true
}
