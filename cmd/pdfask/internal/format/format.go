package format

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/styles"
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/mattn/go-runewidth"
)

// IsDarkBG is set once before bubbletea starts so that glamour never issues
// its own OSC 11 query while the program is running.
var IsDarkBG bool

// SpinnerFrames are braille characters for smooth animation.
var SpinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

var (
	mdRenderer      *glamour.TermRenderer
	mdRendererMu    sync.Mutex
	mdRendererWidth int
)

// InitMarkdownRenderer initializes the glamour renderer at the given width.
func InitMarkdownRenderer(width int) {
	if width <= 0 {
		width = 100
	}
	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	if width == mdRendererWidth && mdRenderer != nil {
		return
	}
	// glamour.WithAutoStyle() must not be used here: it queries the terminal
	// (OSC 11), which races with bubbletea's input handling.
	style := glamourstyles.LightStyleConfig
	if IsDarkBG {
		style = glamourstyles.DarkStyleConfig
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	mdRenderer = r
	mdRendererWidth = width
}

// RenderMarkdown converts markdown text to terminal-formatted output.
func RenderMarkdown(text string) string {
	mdRendererMu.Lock()
	r := mdRenderer
	mdRendererMu.Unlock()
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// Truncate shortens s to at most width terminal cells, appending "..." when
// cut. Newlines are replaced with spaces for single-line display.
func Truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// FmtDuration formats a duration for display.
func FmtDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	min := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", min, sec)
}

// RenderTurn formats one conversation turn for the scrollback. Assistant
// replies are rendered as Markdown; error turns are boxed.
func RenderTurn(m message.Message, l i18n.Labels, width int) string {
	var sb strings.Builder

	prefix, name := styles.AssistantPrefixStyle, l.Assistant
	if m.Role == role.User {
		prefix, name = styles.UserPrefixStyle, l.User
	}

	sb.WriteString(prefix.Render(name))
	sb.WriteString(" ")
	sb.WriteString(styles.TimeStyle.Render(m.Timestamp.Format("15:04:05")))
	sb.WriteString("\n")

	if m.Selection != nil {
		excerpt := fmt.Sprintf("%s (%s %d): %s", l.SelectedTextPrefix, l.Page, m.Selection.PageNumber,
			Truncate(m.Selection.Text, max(width-6, 20)))
		sb.WriteString(styles.SelectionStyle.Render(excerpt))
		sb.WriteString("\n")
	}

	if _, isErr := m.GetMeta(conversation.MetaError); isErr {
		sb.WriteString(styles.ErrorBlockStyle.Render(m.Content))
		return sb.String()
	}

	if m.Role == role.Assistant {
		sb.WriteString(RenderMarkdown(m.Content))
		return sb.String()
	}

	lines := strings.Split(m.Content, "\n")
	sb.WriteString(" ")
	sb.WriteString(styles.TreeCorner)
	sb.WriteString(lines[0])
	for _, line := range lines[1:] {
		sb.WriteString("\n   ")
		sb.WriteString(line)
	}

	return sb.String()
}
