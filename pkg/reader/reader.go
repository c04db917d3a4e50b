// Package reader connects the page surface to the conversation: a completed
// drag over the shown page is cut out of the page raster, recognized, and
// sent as a user turn carrying the recognized selection.
package reader

import (
	"context"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/germanamz/pdfask/pkg/region"
	"github.com/germanamz/pdfask/pkg/selection"
)

// Recognizer turns a PNG region into cleaned text. *ocr.Adapter satisfies it.
type Recognizer interface {
	Recognize(ctx context.Context, png []byte) (string, bool)
}

// Sender appends a user turn and waits for its reply. *conversation.Store
// satisfies it.
type Sender interface {
	Send(ctx context.Context, content string, sel *selection.TextSelection) (message.Message, bool)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithPrompt sets the source of the question sent with every selection. It is
// called per selection so a language change applies to the next one.
func WithPrompt(prompt func() string) Option {
	return func(p *Pipeline) { p.prompt = prompt }
}

// WithOCRStatus registers a callback raised with true when recognition starts
// and false when it ends.
func WithOCRStatus(fn func(busy bool)) Option {
	return func(p *Pipeline) { p.onOCR = fn }
}

// WithSelectionHandler registers a callback for every accepted selection,
// called before the turn is sent.
func WithSelectionHandler(fn func(selection.TextSelection)) Option {
	return func(p *Pipeline) { p.onSelection = fn }
}

// WithClock replaces time.Now for selection timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithMinSize overrides selection.MinSize for drags and extraction.
func WithMinSize(px float64) Option {
	return func(p *Pipeline) { p.tracker.MinSize = px }
}

// Pipeline owns the drag tracker and the raster of the shown page. Pointer
// methods are meant to be called from the UI event loop; recognition and the
// request run in background goroutines.
type Pipeline struct {
	parentCtx   context.Context
	ocr         Recognizer
	sender      Sender
	log         *slog.Logger
	prompt      func() string
	onOCR       func(bool)
	onSelection func(selection.TextSelection)
	now         func() time.Time

	mu      sync.Mutex
	tracker selection.Tracker
	page    int
	raster  image.Image
	gen     uint64

	wg sync.WaitGroup
}

// New creates a Pipeline. parentCtx bounds every background run; cancelling
// it abandons work in flight.
func New(parentCtx context.Context, recognizer Recognizer, sender Sender, opts ...Option) *Pipeline {
	english := i18n.For(i18n.English)

	p := &Pipeline{
		parentCtx: parentCtx,
		ocr:       recognizer,
		sender:    sender,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		prompt:    func() string { return english.AnalyzePrompt },
		onOCR:     func(bool) {},
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}

	return p
}

// SetPage replaces the shown page and its raster. Any drag in progress is
// cancelled and results for the previous page are discarded.
func (p *Pipeline) SetPage(page int, raster image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.page = page
	p.raster = raster
	p.gen++
	p.tracker.PointerLeave()
}

// Page returns the shown page number.
func (p *Pipeline) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.page
}

// PointerDown starts a drag. Earlier recognitions are superseded only once
// the drag completes, so a plain click leaves them alone.
func (p *Pipeline) PointerDown(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tracker.PointerDown(x, y)
}

// PointerMove extends the drag and reports whether the overlay changed.
func (p *Pipeline) PointerMove(x, y float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tracker.PointerMove(x, y)
}

// PointerLeave cancels the drag.
func (p *Pipeline) PointerLeave() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tracker.PointerLeave()
}

// Overlay returns the rectangle to draw over the page while dragging.
func (p *Pipeline) Overlay() (image.Rectangle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tracker.Overlay()
}

// PointerUp completes the drag. When the rectangle is large enough it starts
// recognition in the background, superseding any earlier one, and returns
// true.
func (p *Pipeline) PointerUp() bool {
	p.mu.Lock()
	r, ok := p.tracker.PointerUp()
	if !ok {
		p.mu.Unlock()
		return false
	}
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	p.start(r, gen)

	return true
}

// SelectRect runs the pipeline for an explicit rectangle in page pixels, in
// the background. It returns false for a degenerate rectangle.
func (p *Pipeline) SelectRect(r selection.Rect) bool {
	if r.Degenerate(p.MinSize()) {
		return false
	}

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	p.start(r, gen)

	return true
}

// Run runs the pipeline for r synchronously and returns the assistant turn.
// It returns false when nothing was sent: the rectangle was too small, no
// text was recognized, or a newer selection superseded it.
func (p *Pipeline) Run(ctx context.Context, r selection.Rect) (message.Message, bool) {
	if r.Degenerate(p.MinSize()) {
		return message.Message{}, false
	}

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	return p.process(ctx, r, gen)
}

// Wait blocks until background runs have finished.
func (p *Pipeline) Wait() { p.wg.Wait() }

func (p *Pipeline) start(r selection.Rect, gen uint64) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.process(p.parentCtx, r, gen)
	}()
}

func (p *Pipeline) process(ctx context.Context, r selection.Rect, gen uint64) (message.Message, bool) {
	p.mu.Lock()
	raster, page := p.raster, p.page
	p.mu.Unlock()

	if raster == nil {
		p.log.Debug("selection without page raster")
		return message.Message{}, false
	}

	img, ok := region.ExtractMin(raster, r, int(p.MinSize()))
	if !ok {
		p.log.Debug("selection outside page", "bounds", r.Bounds())
		return message.Message{}, false
	}

	data, err := region.EncodePNG(img)
	if err != nil {
		p.log.Warn("encode selection", "error", err)
		return message.Message{}, false
	}

	p.onOCR(true)
	text, ok := p.ocr.Recognize(ctx, data)
	p.onOCR(false)

	if !ok {
		p.log.Debug("no text recognized", "page", page, "bounds", r.Bounds())
		return message.Message{}, false
	}

	if !p.current(gen) {
		p.log.Debug("dropping superseded selection", "page", page)
		return message.Message{}, false
	}

	sel, ok := selection.NewText(text, page, r.Bounds(), p.now())
	if !ok {
		return message.Message{}, false
	}

	p.log.Info("selection recognized", "page", page, "chars", len([]rune(sel.Text)))

	if p.onSelection != nil {
		p.onSelection(sel)
	}

	return p.sender.Send(ctx, p.prompt(), &sel)
}

func (p *Pipeline) current(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.gen == gen
}

// MinSize returns the smallest width or height, in pixels, a selection must
// have to be recognized.
func (p *Pipeline) MinSize() float64 {
	if p.tracker.MinSize > 0 {
		return p.tracker.MinSize
	}
	return selection.MinSize
}
