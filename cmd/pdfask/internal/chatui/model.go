// Package chatui is the terminal chat front-end: a scrollback of the
// conversation, an input box, and slash commands that page through the PDF
// and run selections through the reader pipeline.
package chatui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/format"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/styles"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/document"
	"github.com/germanamz/pdfask/pkg/export"
	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/germanamz/pdfask/pkg/reader"
	"github.com/germanamz/pdfask/pkg/selection"
)

// Pages renders pages of the open document. *document.Document satisfies it.
type Pages interface {
	PageCount() int
	Render(page int, scale float64) (*image.RGBA, error)
}

// Config holds the collaborators of the chat model.
type Config struct {
	Store     *conversation.Store
	Pipeline  *reader.Pipeline
	Pages     Pages
	Title     string
	Labels    func() i18n.Labels
	ExportDir string
	Clipboard func(string) error
	Now       func() time.Time
}

// Model is the bubbletea model of the chat front-end.
type Model struct {
	ctx    context.Context
	cfg    Config
	viewer *document.Viewer

	chat    viewport.Model
	input   inputModel
	status  string
	isError bool

	current *selection.TextSelection
	loading bool
	ocrBusy bool
	ticking bool
	frame   int

	width, height int
	cancelBridge  context.CancelFunc
}

// New creates the chat model showing the first page.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Labels == nil {
		en := i18n.For(i18n.English)
		cfg.Labels = func() i18n.Labels { return en }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return Model{
		ctx:    ctx,
		cfg:    cfg,
		viewer: document.NewViewer(cfg.Pages.PageCount()),
		chat:   viewport.New(80, 20),
		input:  newInput(cfg.Labels().InputHint),
	}
}

func (m Model) Init() tea.Cmd {
	// Delay focusing the input so that stale terminal escape-sequence
	// responses are drained first.
	return tea.Batch(
		tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return initDrainMsg{} }),
		m.renderPage(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		format.InitMarkdownRenderer(m.width - 4)
		m.input.setWidth(m.width)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case initDrainMsg:
		return m, m.input.enable()

	case programReadyMsg:
		m.cancelBridge = startBridge(m.ctx, msg.program, m.cfg.Store)
		return m, nil

	case inputSubmitMsg:
		return m.handleSubmit(msg.text)

	case storeEventMsg:
		m.loading = m.cfg.Store.Loading()
		if msg.event.Kind == conversation.EventCleared {
			m.current = nil
		}
		m.refresh()
		return m, m.ensureTick()

	case ocrStatusMsg:
		m.ocrBusy = msg.busy
		m.refresh()
		return m, m.ensureTick()

	case selectionMsg:
		sel := msg.sel
		m.current = &sel
		m.refresh()
		return m, nil

	case pageRenderedMsg:
		if msg.page != m.viewer.Page() {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus("", msg.err)
			return m, nil
		}
		m.cfg.Pipeline.SetPage(msg.page, msg.raster)
		b := msg.raster.Bounds()
		m.setStatus(fmt.Sprintf("%s %d/%d · %d%% · %dx%d px",
			m.cfg.Labels().Page, msg.page, m.viewer.PageCount(), m.viewer.ZoomPercent(), b.Dx(), b.Dy()), nil)
		return m, nil

	case statusMsg:
		m.setStatus(msg.text, msg.err)
		return m, nil

	case tickMsg:
		if m.busy() {
			m.frame++
			return m, tickCmd()
		}
		m.ticking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		m.chat.View(),
		m.selectionBox(),
		m.input.View(),
		m.statusLine(),
	)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return *m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return *m, cmd
}

func (m *Model) handleSubmit(text string) (tea.Model, tea.Cmd) {
	c, err := parseCommand(text)
	if err != nil {
		m.setStatus("", err)
		return *m, nil
	}

	l := m.cfg.Labels()

	switch c.kind {
	case cmdSend:
		if m.loading {
			m.setStatus(l.AIThinking, nil)
			return *m, nil
		}
		store, ctx, sel := m.cfg.Store, m.ctx, m.current
		return *m, func() tea.Msg {
			store.Send(ctx, c.text, sel)
			return nil
		}

	case cmdPage:
		m.viewer.SetPage(c.page)
		return *m, m.renderPage()

	case cmdNext:
		m.viewer.Next()
		return *m, m.renderPage()

	case cmdPrev:
		m.viewer.Prev()
		return *m, m.renderPage()

	case cmdZoom:
		switch c.text {
		case "in":
			m.viewer.ZoomIn()
		case "out":
			m.viewer.ZoomOut()
		default:
			m.viewer.ResetZoom()
		}
		return *m, m.renderPage()

	case cmdSelect:
		if !m.cfg.Pipeline.SelectRect(c.rect) {
			m.setStatus("", fmt.Errorf("selection is smaller than %.0f px", m.cfg.Pipeline.MinSize()))
			return *m, nil
		}
		m.setStatus(l.OCRProcessing, nil)
		return *m, nil

	case cmdRegen:
		store, ctx := m.cfg.Store, m.ctx
		return *m, func() tea.Msg {
			if _, ok := store.Regenerate(ctx); !ok {
				return statusMsg{err: errors.New("nothing to regenerate")}
			}
			return nil
		}

	case cmdClear:
		m.cfg.Store.Clear()
		m.current = nil
		m.setStatus(l.ClearChat, nil)
		return *m, nil

	case cmdExport:
		return *m, m.exportCmd(c.text)

	case cmdCopy:
		if m.cfg.Clipboard == nil {
			m.setStatus("", errors.New("clipboard is not available"))
			return *m, nil
		}
		if err := m.cfg.Clipboard(export.PlainText(m.cfg.Store.Turns(), l)); err != nil {
			m.setStatus("", fmt.Errorf("copy: %w", err))
			return *m, nil
		}
		m.setStatus(l.CopyAllChats, nil)
		return *m, nil

	case cmdHelp:
		m.setStatus(helpText, nil)
		return *m, nil

	case cmdQuit:
		return m.quit()
	}

	return *m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelBridge != nil {
		m.cancelBridge()
	}
	return *m, tea.Quit
}

// renderPage rasterizes the current page off the update loop.
func (m *Model) renderPage() tea.Cmd {
	pages, page, scale := m.cfg.Pages, m.viewer.Page(), m.viewer.Scale()
	if page == 0 {
		return nil
	}

	return func() tea.Msg {
		img, err := pages.Render(page, scale)
		if err != nil {
			return pageRenderedMsg{page: page, err: err}
		}
		return pageRenderedMsg{page: page, raster: img}
	}
}

func (m *Model) exportCmd(path string) tea.Cmd {
	turns, l, now, dir := m.cfg.Store.Turns(), m.cfg.Labels(), m.cfg.Now(), m.cfg.ExportDir

	return func() tea.Msg {
		if path != "" {
			if err := export.WriteFile(path, turns, l, now, false); err != nil {
				return statusMsg{err: err}
			}
			return statusMsg{text: l.ExportChat + ": " + path}
		}

		saved, err := export.Save(dir, turns, l, now, export.Options{})
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: l.ExportChat + ": " + saved}
	}
}

func (m *Model) setStatus(text string, err error) {
	m.isError = err != nil
	if err != nil {
		text = "error: " + err.Error()
	}
	m.status = text
	m.refresh()
}

func (m Model) busy() bool { return m.loading || m.ocrBusy }

func (m *Model) ensureTick() tea.Cmd {
	if !m.busy() || m.ticking {
		return nil
	}
	m.ticking = true
	return tickCmd()
}

// refresh re-renders the scrollback and fits the viewport between the fixed
// header and footer sections.
func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}

	fixed := lipgloss.Height(m.header()) + lipgloss.Height(m.input.View()) + lipgloss.Height(m.statusLine())
	if box := m.selectionBox(); box != "" {
		fixed += lipgloss.Height(box)
	}
	m.chat.Width = m.width
	m.chat.Height = max(m.height-fixed, 1)
	m.chat.SetContent(m.transcript())
	m.chat.GotoBottom()
}

func (m Model) transcript() string {
	l := m.cfg.Labels()
	turns := m.cfg.Store.Turns()
	if len(turns) == 0 {
		return styles.DimStyle.Render(l.EmptyState)
	}

	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		blocks = append(blocks, format.RenderTurn(t, l, m.width))
	}

	return strings.Join(blocks, "\n\n")
}

func (m Model) header() string {
	title := m.cfg.Title
	if title == "" {
		title = "pdfask"
	}
	return styles.TitleStyle.Render(format.Truncate(title, max(m.width-2, 10)))
}

func (m Model) selectionBox() string {
	if m.current == nil {
		return ""
	}
	l := m.cfg.Labels()
	text := fmt.Sprintf("%s (%s %d): %s", l.SelectedTextPrefix, l.Page, m.current.PageNumber,
		format.Truncate(m.current.Text, max(m.width-20, 20)))
	return styles.SelectionStyle.Render(text)
}

func (m Model) statusLine() string {
	l := m.cfg.Labels()
	switch {
	case m.ocrBusy:
		return m.spinner() + " " + styles.StatusStyle.Render(l.OCRProcessing)
	case m.loading:
		return m.spinner() + " " + styles.StatusStyle.Render(l.AIThinking)
	case m.isError:
		return styles.ErrorBlockStyle.Render(m.status)
	default:
		return styles.StatusStyle.Render(m.status)
	}
}

func (m Model) spinner() string {
	frame := format.SpinnerFrames[m.frame%len(format.SpinnerFrames)]
	return styles.SpinnerStyle.Render(frame)
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
