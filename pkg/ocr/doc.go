// Package ocr turns an isolated page region into text.
//
// An [Engine] does the recognition. [Adapter] wraps an engine with the
// post-processing the chat pipeline expects: whitespace is collapsed, short
// results are treated as noise, and engine failures are logged and reported
// as "no text" instead of surfacing to the user.
package ocr
