// Package selection captures rectangular drag gestures over a rendered page
// surface and holds the text selections that OCR derives from them.
//
// A [Tracker] is fed pointer events in surface-local pixel coordinates. It
// yields a completed [Rect] on pointer-up unless the drag was cancelled or the
// rectangle is smaller than [MinSize] in either dimension. The overlay drawn
// while dragging is a projection of the tracker state ([Tracker.Overlay]),
// never state of its own.
package selection
