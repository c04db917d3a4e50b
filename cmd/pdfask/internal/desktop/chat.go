package desktop

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/export"
	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/germanamz/pdfask/pkg/selection"
)

// chatPanel lists the conversation and holds the input row. Typed questions
// are sent with the most recent recognized selection.
type chatPanel struct {
	ctx    context.Context
	store  *conversation.Store
	labels func() i18n.Labels
	win    fyne.Window
	status func(string)

	exportDir string

	mu      sync.Mutex
	current *selection.TextSelection

	turns      *fyne.Container
	scroll     *container.Scroll
	empty      *widget.Label
	selBox     *widget.Card
	selText    *widget.Label
	busy       *widget.ProgressBarInfinite
	busyLabel  *widget.Label
	entry      *widget.Entry
	send       *widget.Button
	regenerate *widget.Button
	clear      *widget.Button
	exportBtn  *widget.Button
	copyAll    *widget.Button

	content fyne.CanvasObject
}

func newChatPanel(ctx context.Context, store *conversation.Store, labels func() i18n.Labels, win fyne.Window, exportDir string, status func(string)) *chatPanel {
	c := &chatPanel{
		ctx:       ctx,
		store:     store,
		labels:    labels,
		win:       win,
		status:    status,
		exportDir: exportDir,
	}

	c.turns = container.NewVBox()
	c.empty = widget.NewLabel("")
	c.empty.Alignment = fyne.TextAlignCenter
	c.empty.Wrapping = fyne.TextWrapWord
	c.scroll = container.NewVScroll(container.NewVBox(c.empty, c.turns))

	c.selText = widget.NewLabel("")
	c.selText.Wrapping = fyne.TextWrapWord
	c.selBox = widget.NewCard("", "", c.selText)
	c.selBox.Hide()

	c.busy = widget.NewProgressBarInfinite()
	c.busyLabel = widget.NewLabel("")
	c.busy.Hide()
	c.busyLabel.Hide()

	c.entry = widget.NewEntry()
	c.entry.OnSubmitted = func(string) { c.submit() }
	c.send = widget.NewButtonWithIcon("", theme.MailSendIcon(), c.submit)

	c.regenerate = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), c.onRegenerate)
	c.clear = widget.NewButtonWithIcon("", theme.DeleteIcon(), c.onClear)
	c.exportBtn = widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), c.onExport)
	c.copyAll = widget.NewButtonWithIcon("", theme.ContentCopyIcon(), c.onCopyAll)

	actions := container.NewHBox(c.regenerate, c.clear, c.exportBtn, c.copyAll)
	input := container.NewBorder(nil, nil, nil, c.send, c.entry)
	bottom := container.NewVBox(c.selBox, c.busyLabel, c.busy, input)

	c.content = container.NewBorder(actions, bottom, nil, nil, c.scroll)
	c.applyLabels()
	c.rebuild()

	return c
}

// watch re-renders the panel on every conversation event until ctx ends.
func (c *chatPanel) watch(ctx context.Context) {
	sub := c.store.Subscribe(64)
	go func() {
		defer c.store.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if ev.Kind == conversation.EventCleared {
					c.setSelection(nil)
				}
				c.rebuild()
			}
		}
	}()
}

// applyLabels sets every translatable text; called again on language change.
func (c *chatPanel) applyLabels() {
	l := c.labels()
	c.empty.SetText(l.EmptyState)
	c.entry.SetPlaceHolder(l.InputHint)
	c.selBox.SetTitle(l.SelectedTextPrefix)
	c.regenerate.SetText(l.Regenerate)
	c.clear.SetText(l.ClearChat)
	c.exportBtn.SetText(l.ExportChat)
	c.copyAll.SetText(l.CopyAllChats)
	c.rebuild()
}

func (c *chatPanel) rebuild() {
	l := c.labels()
	turns := c.store.Turns()
	loading := c.store.Loading()

	objs := make([]fyne.CanvasObject, 0, len(turns))
	for _, t := range turns {
		objs = append(objs, turnView(t, l))
	}
	c.turns.Objects = objs
	c.turns.Refresh()

	if len(turns) == 0 {
		c.empty.Show()
	} else {
		c.empty.Hide()
	}

	c.setLoading(loading, l)
	c.scroll.ScrollToBottom()
}

func (c *chatPanel) setLoading(loading bool, l i18n.Labels) {
	if loading {
		c.send.Disable()
		c.regenerate.Disable()
		c.busyLabel.SetText(l.AIThinking)
		c.busyLabel.Show()
		c.busy.Show()
		return
	}

	c.send.Enable()
	if c.store.Len() >= 2 {
		c.regenerate.Enable()
	} else {
		c.regenerate.Disable()
	}
	c.busyLabel.Hide()
	c.busy.Hide()
}

// setOCR shows the recognition indicator.
func (c *chatPanel) setOCR(busy bool) {
	if busy {
		c.busyLabel.SetText(c.labels().OCRProcessing)
		c.busyLabel.Show()
		c.busy.Show()
		return
	}
	c.setLoading(c.store.Loading(), c.labels())
}

func (c *chatPanel) setSelection(sel *selection.TextSelection) {
	c.mu.Lock()
	c.current = sel
	c.mu.Unlock()

	if sel == nil {
		c.selBox.Hide()
		return
	}

	l := c.labels()
	c.selBox.SetSubTitle(fmt.Sprintf("%s %d", l.Page, sel.PageNumber))
	c.selText.SetText(sel.Text)
	c.selBox.Show()
}

func (c *chatPanel) submit() {
	text := c.entry.Text
	if text == "" || c.store.Loading() {
		return
	}
	c.entry.SetText("")

	c.mu.Lock()
	sel := c.current
	c.mu.Unlock()

	go c.store.Send(c.ctx, text, sel)
}

func (c *chatPanel) onRegenerate() {
	go c.store.Regenerate(c.ctx)
}

func (c *chatPanel) onClear() {
	c.store.Clear()
}

func (c *chatPanel) onExport() {
	l := c.labels()
	turns := c.store.Turns()
	now := timeNow()

	fd := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			return
		}
		path := w.URI().Path()
		_ = w.Close()

		if err := export.WriteFile(path, turns, l, now, false); err != nil {
			dialog.ShowError(err, c.win)
			return
		}
		c.status(l.ExportChat + ": " + path)
	}, c.win)
	fd.SetFileName(export.FileName(now, export.FormatMarkdown))
	if loc := listable(c.exportDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (c *chatPanel) onCopyAll() {
	l := c.labels()
	c.win.Clipboard().SetContent(export.PlainText(c.store.Turns(), l))
	c.status(l.CopyAllChats)
}

// turnView renders one turn: header, optional selection excerpt, and the
// content as Markdown for assistant replies.
func turnView(t message.Message, l i18n.Labels) fyne.CanvasObject {
	name := l.Assistant
	if t.Role == role.User {
		name = l.User
	}

	header := widget.NewLabelWithStyle(
		fmt.Sprintf("%s · %s", name, t.Timestamp.Format(export.TurnTimeLayout)),
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true},
	)

	objs := []fyne.CanvasObject{header}

	if t.Selection != nil {
		sel := widget.NewLabelWithStyle(
			fmt.Sprintf("%s (%s %d): %s", l.SelectedTextPrefix, l.Page, t.Selection.PageNumber, t.Selection.Text),
			fyne.TextAlignLeading, fyne.TextStyle{Italic: true},
		)
		sel.Wrapping = fyne.TextWrapWord
		objs = append(objs, sel)
	}

	var body fyne.CanvasObject
	if _, isErr := t.GetMeta(conversation.MetaError); isErr {
		lbl := widget.NewLabelWithStyle(t.Content, fyne.TextAlignLeading, fyne.TextStyle{})
		lbl.Wrapping = fyne.TextWrapWord
		lbl.Importance = widget.DangerImportance
		body = lbl
	} else if t.Role == role.Assistant {
		rt := widget.NewRichTextFromMarkdown(t.Content)
		rt.Wrapping = fyne.TextWrapWord
		body = rt
	} else {
		lbl := widget.NewLabel(t.Content)
		lbl.Wrapping = fyne.TextWrapWord
		body = lbl
	}
	objs = append(objs, body, widget.NewSeparator())

	return container.NewVBox(objs...)
}
