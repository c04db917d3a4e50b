package chatui

import (
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/selection"
)

// storeEventMsg delivers a conversation event from the bridge goroutine.
type storeEventMsg struct {
	event conversation.Event
}

// ocrStatusMsg reports that recognition started (busy) or finished.
type ocrStatusMsg struct {
	busy bool
}

// selectionMsg carries a selection the pipeline accepted.
type selectionMsg struct {
	sel selection.TextSelection
}

// inputSubmitMsg carries the text the user submitted from the input box.
type inputSubmitMsg struct {
	text string
}

// pageRenderedMsg carries the raster of the page now shown.
type pageRenderedMsg struct {
	page   int
	raster image.Image
	err    error
}

// statusMsg replaces the status line.
type statusMsg struct {
	text string
	err  error
}

// programReadyMsg passes the *tea.Program to the model so it can start the bridge.
type programReadyMsg struct {
	program *tea.Program
}

// initDrainMsg fires after a short delay so that stale terminal responses
// are discarded before focusing input.
type initDrainMsg struct{}

// tickMsg drives the spinner while a request or recognition is running.
type tickMsg time.Time
