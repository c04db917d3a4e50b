package selection

import (
	"image"
	"time"
	"unicode/utf8"
)

// MinTextLen is the number of runes OCR text must exceed to become a
// selection. Shorter results are noise.
const MinTextLen = 3

// TextSelection is text recognized inside a selection rectangle. It is
// immutable once created.
type TextSelection struct {
	Text       string
	PageNumber int
	Bounds     image.Rectangle
	Timestamp  time.Time
}

// NewText builds a TextSelection from already normalized OCR text. It returns
// false when the text is too short to be meaningful.
func NewText(text string, page int, bounds image.Rectangle, at time.Time) (TextSelection, bool) {
	if utf8.RuneCountInString(text) <= MinTextLen {
		return TextSelection{}, false
	}

	return TextSelection{
		Text:       text,
		PageNumber: page,
		Bounds:     bounds,
		Timestamp:  at,
	}, true
}
