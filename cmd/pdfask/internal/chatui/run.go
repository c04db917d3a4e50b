package chatui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/pdfask/pkg/reader"
	"github.com/germanamz/pdfask/pkg/selection"
)

// relay forwards pipeline callbacks to the program once it exists.
type relay struct {
	p atomic.Pointer[tea.Program]
}

func (r *relay) send(msg tea.Msg) {
	if p := r.p.Load(); p != nil {
		p.Send(msg)
	}
}

// Run builds the reader pipeline around recognizer, starts the program and
// blocks until the user quits. cfg.Pipeline is replaced.
func Run(ctx context.Context, cfg Config, recognizer reader.Recognizer, opts ...reader.Option) error {
	ctx, cancel := context.WithCancel(ctx)
	r := &relay{}

	opts = append(opts,
		reader.WithOCRStatus(func(busy bool) { r.send(ocrStatusMsg{busy: busy}) }),
		reader.WithSelectionHandler(func(sel selection.TextSelection) { r.send(selectionMsg{sel: sel}) }),
	)
	if cfg.Labels != nil {
		labels := cfg.Labels
		opts = append(opts, reader.WithPrompt(func() string { return labels().AnalyzePrompt }))
	}
	cfg.Pipeline = reader.New(ctx, recognizer, cfg.Store, opts...)
	defer func() {
		cancel()
		cfg.Pipeline.Wait()
	}()

	p := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	r.p.Store(p)

	// Send the program reference so the model can start the bridge.
	go func() {
		p.Send(programReadyMsg{program: p})
	}()

	_, err := p.Run()
	return err
}
