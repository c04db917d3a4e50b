package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/chatui"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/desktop"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/format"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/styles"
	"github.com/germanamz/pdfask/cmd/pdfask/internal/wizard"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/document"
	"github.com/germanamz/pdfask/pkg/reader"
	"github.com/germanamz/pdfask/pkg/selection"
)

var errNoText = errors.New("no text recognized in the region")

func runDesktop(ctx context.Context, rt *runtime, path string) error {
	return desktop.Run(ctx, desktop.Deps{
		Config:     rt.config,
		Assistant:  rt.assistant,
		Store:      rt.store,
		Recognizer: rt.ocr,
		ExportDir:  rt.dir.ExportsDir(),
		Log:        rt.log,
	}, path)
}

func runChat(ctx context.Context, rt *runtime, path string) error {
	doc, err := document.OpenFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = doc.Close() }()

	// Query the terminal background once, before bubbletea owns the input.
	format.IsDarkBG = lipgloss.HasDarkBackground()

	title := doc.Title()
	if title == "" {
		title = filepath.Base(path)
	}

	return chatui.Run(ctx, chatui.Config{
		Store:     rt.store,
		Pages:     doc,
		Title:     title,
		Labels:    rt.assistant.Labels,
		ExportDir: rt.dir.ExportsDir(),
		Clipboard: clipboard.WriteAll,
	}, rt.ocr, reader.WithLogger(rt.log))
}

func runConfig(ctx context.Context, rt *runtime) error {
	return wizard.Run(ctx, rt.config, rt.assistant, rt.assistant, os.Stdout)
}

// askRequest is one region of one page plus an optional question.
type askRequest struct {
	path     string
	page     int
	rect     string
	scale    float64
	question string
}

func runAsk(ctx context.Context, rt *runtime, req askRequest, out io.Writer) error {
	r, err := selection.ParseRect(req.rect)
	if err != nil {
		return err
	}

	doc, err := document.OpenFile(req.path)
	if err != nil {
		return err
	}
	defer func() { _ = doc.Close() }()

	img, err := doc.Render(req.page, req.scale)
	if err != nil {
		return err
	}

	prompt := rt.assistant.Labels().AnalyzePrompt
	if req.question != "" {
		prompt = req.question
	}

	p := reader.New(ctx, rt.ocr, rt.store,
		reader.WithLogger(rt.log),
		reader.WithPrompt(func() string { return prompt }),
	)
	p.SetPage(req.page, img)

	reply, ok := p.Run(ctx, r)
	if !ok {
		return errNoText
	}

	l := rt.assistant.Labels()
	if _, isErr := reply.GetMeta(conversation.MetaError); isErr {
		return errors.New(reply.Content)
	}

	format.IsDarkBG = lipgloss.HasDarkBackground()
	format.InitMarkdownRenderer(100)

	for _, t := range rt.store.Turns() {
		fmt.Fprintln(out, format.RenderTurn(t, l, 100))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, styles.DimStyle.Render(fmt.Sprintf("%s %d · %s", l.Page, req.page, req.path)))

	return nil
}
