// Package desktop is the windowed reader: the page on the left, the chat on
// the right. Dragging over the page recognizes the region and asks about it.
package desktop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/germanamz/pdfask/pkg/assistant"
	"github.com/germanamz/pdfask/pkg/config"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/document"
	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/germanamz/pdfask/pkg/reader"
	"github.com/germanamz/pdfask/pkg/selection"
)

const (
	appID    = "io.github.germanamz.pdfask"
	appTitle = "PDF AI Reader"

	prefKeyLastDir = "lastDirectory"
)

var timeNow = time.Now

// Deps are the services the window drives.
type Deps struct {
	Config     *config.Store
	Assistant  *assistant.Assistant
	Store      *conversation.Store
	Recognizer reader.Recognizer
	ExportDir  string
	Log        *slog.Logger
}

// MainWindow is the application window.
type MainWindow struct {
	fyne.Window
	app  fyne.App
	ctx  context.Context
	deps Deps
	log  *slog.Logger

	pipeline *reader.Pipeline
	page     *pageView
	scroll   *container.Scroll
	chat     *chatPanel

	statusBar *widget.Label
	pageLabel *widget.Label
	openBtn   *widget.Button

	mu     sync.Mutex
	doc    *document.Document
	viewer *document.Viewer
}

// Run opens the window, loads path when non-empty, and blocks until the
// window is closed.
func Run(ctx context.Context, deps Deps, path string) error {
	ctx, cancel := context.WithCancel(ctx)

	if deps.Log == nil {
		deps.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fyneApp := app.NewWithID(appID)
	mw := New(ctx, fyneApp, deps)
	defer func() {
		cancel()
		mw.close()
	}()

	if path != "" {
		if err := mw.openFile(path); err != nil {
			deps.Log.Error("open document", "path", path, "error", err)
			dialog.ShowError(err, mw.Window)
		}
	}

	go func() {
		<-ctx.Done()
		fyneApp.Quit()
	}()

	mw.ShowAndRun()
	return nil
}

// New creates the main window.
func New(ctx context.Context, fyneApp fyne.App, deps Deps) *MainWindow {
	mw := &MainWindow{
		Window: fyneApp.NewWindow(appTitle),
		app:    fyneApp,
		ctx:    ctx,
		deps:   deps,
		log:    deps.Log,
		viewer: document.NewViewer(0),
	}

	mw.applyTheme(deps.Config.Get())
	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	mw.Resize(fyne.NewSize(1280, 820))

	return mw
}

func (mw *MainWindow) labels() i18n.Labels {
	return i18n.For(i18n.Resolve(mw.deps.Config.Get().Language))
}

func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("")
	mw.pageLabel = widget.NewLabel("")

	mw.chat = newChatPanel(mw.ctx, mw.deps.Store, mw.labels, mw.Window, mw.deps.ExportDir, mw.updateStatus)

	mw.pipeline = reader.New(mw.ctx, mw.deps.Recognizer, mw.deps.Store,
		reader.WithLogger(mw.log),
		reader.WithPrompt(func() string { return mw.labels().AnalyzePrompt }),
		reader.WithOCRStatus(mw.chat.setOCR),
		reader.WithSelectionHandler(func(sel selection.TextSelection) { mw.chat.setSelection(&sel) }),
	)

	mw.page = newPageView(mw.pipeline)
	mw.scroll = container.NewScroll(container.NewCenter(mw.page))

	pageArea := container.NewBorder(mw.createToolbar(), nil, nil, nil, mw.scroll)

	split := container.NewHSplit(pageArea, mw.chat.content)
	split.SetOffset(0.62)

	mw.SetContent(container.NewBorder(nil, container.NewPadded(mw.statusBar), nil, nil, split))
	mw.updateStatus(mw.labels().SelectToStart)
	mw.updatePageLabel()
}

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.openBtn = widget.NewButtonWithIcon(mw.labels().OpenPDF, theme.FolderOpenIcon(), mw.onOpen)

	return container.NewHBox(
		mw.openBtn,
		widget.NewSeparator(),
		widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { mw.navigate((*document.Viewer).Prev) }),
		mw.pageLabel,
		widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { mw.navigate((*document.Viewer).Next) }),
		widget.NewSeparator(),
		widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { mw.zoom((*document.Viewer).ZoomOut) }),
		widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { mw.zoom((*document.Viewer).ZoomIn) }),
		widget.NewButton("100%", func() { mw.zoom((*document.Viewer).ResetZoom) }),
		widget.NewSeparator(),
		widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), mw.onToggleTheme),
		widget.NewButtonWithIcon("", theme.SettingsIcon(), mw.onSettings),
	)
}

func (mw *MainWindow) setupMenus() {
	l := mw.labels()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem(l.OpenPDF+"...", mw.onOpen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(l.ExportChat+"...", mw.chat.onExport),
		fyne.NewMenuItem(l.CopyAllChats, mw.chat.onCopyAll),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.zoom((*document.Viewer).ZoomIn) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.zoom((*document.Viewer).ZoomOut) }),
		fyne.NewMenuItem("Actual Size", func() { mw.zoom((*document.Viewer).ResetZoom) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Theme", mw.onToggleTheme),
	)
	chatMenu := fyne.NewMenu("Chat",
		fyne.NewMenuItem(l.Regenerate, mw.chat.onRegenerate),
		fyne.NewMenuItem(l.ClearChat, mw.chat.onClear),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(l.Settings+"...", mw.onSettings),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, chatMenu))
}

func (mw *MainWindow) setupEventHandlers() {
	mw.chat.watch(mw.ctx)

	mw.deps.Config.OnChange(func(cfg config.AppConfig) {
		mw.applyTheme(cfg)
		mw.chat.applyLabels()
		mw.openBtn.SetText(mw.labels().OpenPDF)
		mw.setupMenus()
	})
}

func (mw *MainWindow) applyTheme(cfg config.AppConfig) {
	mw.app.Settings().SetTheme(newTheme(cfg.Theme))
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updatePageLabel() {
	mw.mu.Lock()
	page, pages, zoom := mw.viewer.Page(), mw.viewer.PageCount(), mw.viewer.ZoomPercent()
	mw.mu.Unlock()

	mw.pageLabel.SetText(fmt.Sprintf("%d / %d · %d%%", page, pages, zoom))
}

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		path := r.URI().Path()
		_ = r.Close()

		mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(path))
		if err := mw.openFile(path); err != nil {
			mw.log.Error("open document", "path", path, "error", err)
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if loc := listable(mw.app.Preferences().String(prefKeyLastDir)); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// openFile replaces the open document and shows its first page. The current
// selection belongs to the old document and is dropped.
func (mw *MainWindow) openFile(path string) error {
	doc, err := document.OpenFile(path)
	if err != nil {
		return err
	}

	mw.mu.Lock()
	old := mw.doc
	mw.doc = doc
	mw.viewer = document.NewViewer(doc.PageCount())
	mw.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	title := doc.Title()
	if title == "" {
		title = filepath.Base(path)
	}
	mw.SetTitle(appTitle + " - " + title)
	mw.chat.setSelection(nil)
	mw.log.Info("document opened", "path", path, "pages", doc.PageCount())

	mw.showPage()

	return nil
}

func (mw *MainWindow) navigate(move func(*document.Viewer) bool) {
	mw.mu.Lock()
	changed := move(mw.viewer)
	mw.mu.Unlock()

	if changed {
		mw.showPage()
	}
}

func (mw *MainWindow) zoom(change func(*document.Viewer)) {
	mw.mu.Lock()
	change(mw.viewer)
	mw.mu.Unlock()

	mw.showPage()
}

// showPage renders the current page in the background and hands the raster
// to the page view and the pipeline.
func (mw *MainWindow) showPage() {
	mw.mu.Lock()
	doc, page, scale := mw.doc, mw.viewer.Page(), mw.viewer.Scale()
	mw.mu.Unlock()

	mw.updatePageLabel()
	if doc == nil || page == 0 {
		return
	}

	go func() {
		img, err := doc.Render(page, scale)
		if err != nil {
			mw.log.Error("render page", "page", page, "error", err)
			mw.updateStatus(err.Error())
			return
		}

		mw.mu.Lock()
		current := mw.doc == doc && mw.viewer.Page() == page && mw.viewer.Scale() == scale
		mw.mu.Unlock()
		if !current {
			return
		}

		mw.pipeline.SetPage(page, img)
		mw.page.SetImage(img)
		mw.scroll.Refresh()
	}()
}

func (mw *MainWindow) onToggleTheme() {
	systemDark := mw.app.Settings().ThemeVariant() == theme.VariantDark
	if err := mw.deps.Config.ToggleTheme(systemDark); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) close() {
	mw.pipeline.Wait()

	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.doc != nil {
		_ = mw.doc.Close()
		mw.doc = nil
	}
}

func listable(dir string) fyne.ListableURI {
	if dir == "" {
		return nil
	}
	l, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return l
}
