package ocr

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/germanamz/pdfask/pkg/selection"
)

// DefaultTimeout bounds a single recognition.
const DefaultTimeout = 30 * time.Second

// Engine recognizes text in a PNG-encoded image.
type Engine interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, png []byte) (string, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, png []byte) (string, error) {
	return f(ctx, png)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for engine failures.
func WithLogger(log *slog.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

// WithTimeout overrides DefaultTimeout. A non-positive value disables it.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.timeout = d }
}

// Adapter wraps an Engine with cleaning and noise rejection.
type Adapter struct {
	engine  Engine
	log     *slog.Logger
	timeout time.Duration
}

// New creates an Adapter around engine.
func New(engine Engine, opts ...Option) *Adapter {
	a := &Adapter{
		engine:  engine,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: DefaultTimeout,
	}
	for _, o := range opts {
		o(a)
	}

	return a
}

// Recognize runs the engine on png and returns the cleaned text. ok is false
// when the engine failed or the text is too short to be useful; neither case
// is an error for the caller.
func (a *Adapter) Recognize(ctx context.Context, png []byte) (text string, ok bool) {
	if len(png) == 0 {
		return "", false
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := a.recognize(ctx, png)
	if err != nil {
		a.log.Warn("ocr failed", "error", err, "bytes", len(png), "elapsed", time.Since(start))
		return "", false
	}

	text = Clean(raw)
	if utf8.RuneCountInString(text) <= selection.MinTextLen {
		a.log.Debug("ocr text rejected", "runes", utf8.RuneCountInString(text))
		return "", false
	}

	a.log.Debug("ocr done", "runes", utf8.RuneCountInString(text), "elapsed", time.Since(start))

	return text, true
}

// recognize runs the engine so that a hung engine cannot outlive ctx.
func (a *Adapter) recognize(ctx context.Context, png []byte) (string, error) {
	type result struct {
		text string
		err  error
	}

	done := make(chan result, 1)
	go func() {
		text, err := a.engine.Recognize(ctx, png)
		done <- result{text, err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Clean collapses every run of whitespace, newlines included, into a single
// space and trims the ends.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
