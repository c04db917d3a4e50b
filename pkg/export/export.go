// Package export renders a conversation for saving or copying: a Markdown
// document, a plain-text transcript, and an HTML page built from the
// Markdown.
package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"
)

// Time layouts used in exported documents.
const (
	ExportTimeLayout = "2006-01-02 15:04:05"
	TurnTimeLayout   = "15:04:05"
)

const (
	turnSeparator     = "\n\n---\n\n"
	transcriptDivider = "\n\n" + "==================================================" + "\n\n"
)

// Format selects the exported document type.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatText     Format = "txt"
)

// Options controls Render.
type Options struct {
	Format      Format // Defaults to FormatMarkdown.
	FrontMatter bool   // Prepend YAML front matter (Markdown only).
}

type frontMatter struct {
	Title    string    `yaml:"title"`
	Exported time.Time `yaml:"exported"`
	Messages int       `yaml:"messages"`
	Language string    `yaml:"language"`
}

// FileName returns the default export file name for the day of now.
func FileName(now time.Time, f Format) string {
	if f == "" {
		f = FormatMarkdown
	}
	return fmt.Sprintf("pdfask-chat-%s.%s", now.Format("2006-01-02"), f)
}

// Markdown renders turns as a Markdown chat export with a header naming the
// export time and the message count.
func Markdown(turns []message.Message, l i18n.Labels, now time.Time) string {
	return markdown(turns, l, now, func(s string) string { return s })
}

// markdown writes turn content and selection text through text.
func markdown(turns []message.Message, l i18n.Labels, now time.Time, text func(string) string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", l.ChatExportTitle)
	fmt.Fprintf(&b, "**%s**: %s\n", l.ExportTime, now.Format(ExportTimeLayout))
	fmt.Fprintf(&b, "**%s**: %d\n\n---\n\n", l.MessageCount, len(turns))

	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		var p strings.Builder
		fmt.Fprintf(&p, "**%s** (%s)\n\n%s", roleLabel(l, t.Role), t.Timestamp.Format(TurnTimeLayout), text(t.Content))

		if t.Selection != nil {
			quoted := strings.ReplaceAll(text(t.Selection.Text), "\n", "\n> ")
			fmt.Fprintf(&p, "\n\n> **%s** (%s %d):\n> %s", l.SelectedTextPrefix, l.Page, t.Selection.PageNumber, quoted)
		}

		parts = append(parts, p.String())
	}

	b.WriteString(strings.Join(parts, turnSeparator))

	return b.String()
}

// PlainText renders turns as the transcript placed on the clipboard by
// "copy all".
func PlainText(turns []message.Message, l i18n.Labels) string {
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		var p strings.Builder
		fmt.Fprintf(&p, "%s (%s):\n%s", roleLabel(l, t.Role), t.Timestamp.Format(TurnTimeLayout), t.Content)

		if t.Selection != nil {
			fmt.Fprintf(&p, "\n\n[%s - %s%d]:\n\"%s\"", l.SelectedTextPrefix, l.Page, t.Selection.PageNumber, t.Selection.Text)
		}

		parts = append(parts, p.String())
	}

	return strings.Join(parts, transcriptDivider)
}

// HTML renders the Markdown export into a standalone HTML page. Tags in
// turn content show up as text; Markdown around them still renders.
func HTML(turns []message.Message, l i18n.Labels, now time.Time) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(renderer.WithNodeRenderers(util.Prioritized(escapedHTML{}, 100))),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown(turns, l, now, escapeTags)), &body); err != nil {
		return nil, fmt.Errorf("export: render html: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "<!DOCTYPE html>\n<html lang=%q>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		string(l.Lang), html.EscapeString(l.ChatExportTitle))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")

	return out.Bytes(), nil
}

// Render produces the export document selected by opts.
func Render(turns []message.Message, l i18n.Labels, now time.Time, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatHTML:
		return HTML(turns, l, now)
	case FormatText:
		return []byte(PlainText(turns, l)), nil
	case FormatMarkdown, "":
	default:
		return nil, fmt.Errorf("export: unknown format %q", opts.Format)
	}

	var out bytes.Buffer
	if opts.FrontMatter {
		fm, err := yaml.Marshal(frontMatter{
			Title:    l.ChatExportTitle,
			Exported: now,
			Messages: len(turns),
			Language: string(l.Lang),
		})
		if err != nil {
			return nil, fmt.Errorf("export: front matter: %w", err)
		}

		out.WriteString("---\n")
		out.Write(fm)
		out.WriteString("---\n\n")
	}
	out.WriteString(Markdown(turns, l, now))

	return out.Bytes(), nil
}

func roleLabel(l i18n.Labels, r role.Role) string {
	if r == role.User {
		return l.User
	}
	return l.Assistant
}

// escapeTags turns "<" into an entity outside code so goldmark never sees a
// raw HTML block. Fenced and indented code lines and backtick spans are left
// as written, since entities are not decoded there.
func escapeTags(s string) string {
	var b strings.Builder
	fence := ""

	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}

		trimmed := strings.TrimLeft(line, " ")
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(marker, fence):
				fence = ""
			}
			b.WriteString(line)
			continue
		}

		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			b.WriteString(line)
			continue
		}

		escapeLine(&b, line)
	}

	return b.String()
}

func fenceMarker(line string) string {
	for _, c := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, c) {
			n := len(line) - len(strings.TrimLeft(line, c[:1]))
			return line[:n]
		}
	}
	return ""
}

// escapeLine writes line with "<" escaped outside backtick code spans.
func escapeLine(b *strings.Builder, line string) {
	for i := 0; i < len(line); {
		switch line[i] {
		case '`':
			n := len(line[i:]) - len(strings.TrimLeft(line[i:], "`"))
			ticks := line[i : i+n]
			if end := closingTicks(line[i+n:], ticks); end >= 0 {
				span := i + n + end + n
				b.WriteString(line[i:span])
				i = span
				continue
			}
			b.WriteString(ticks)
			i += n
		case '<':
			b.WriteString("&lt;")
			i++
		default:
			b.WriteByte(line[i])
			i++
		}
	}
}

// closingTicks returns the offset in rest of a backtick run exactly as long
// as ticks, or -1.
func closingTicks(rest, ticks string) int {
	for off := 0; off < len(rest); {
		j := strings.Index(rest[off:], ticks)
		if j < 0 {
			return -1
		}
		start := off + j
		end := start + len(ticks)
		if end == len(rest) || rest[end] != '`' {
			return start
		}
		off = end + len(rest[end:]) - len(strings.TrimLeft(rest[end:], "`"))
	}
	return -1
}

// escapedHTML renders any raw HTML goldmark still finds, for example in list
// continuation lines, as visible text instead of dropping it.
type escapedHTML struct{}

func (escapedHTML) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHTMLBlock, renderHTMLBlock)
	reg.Register(ast.KindRawHTML, renderRawHTML)
}

func renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if !entering {
		return ast.WalkContinue, nil
	}

	var b bytes.Buffer
	for i := range n.Lines().Len() {
		line := n.Lines().At(i)
		b.Write(line.Value(source))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(source))
	}

	_, _ = w.WriteString("<p>")
	_, _ = w.WriteString(html.EscapeString(strings.TrimRight(b.String(), "\n")))
	_, _ = w.WriteString("</p>\n")

	return ast.WalkContinue, nil
}

func renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}

	n := node.(*ast.RawHTML)
	for i := range n.Segments.Len() {
		seg := n.Segments.At(i)
		_, _ = w.WriteString(html.EscapeString(string(seg.Value(source))))
	}

	return ast.WalkSkipChildren, nil
}
