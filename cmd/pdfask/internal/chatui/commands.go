package chatui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/germanamz/pdfask/pkg/selection"
)

// commandKind identifies a slash command.
type commandKind int

const (
	cmdSend commandKind = iota // plain text question
	cmdPage
	cmdNext
	cmdPrev
	cmdZoom
	cmdSelect
	cmdRegen
	cmdClear
	cmdExport
	cmdCopy
	cmdHelp
	cmdQuit
)

// command is a parsed input line.
type command struct {
	kind commandKind
	text string         // question for cmdSend, path for cmdExport, direction for cmdZoom
	page int            // cmdPage
	rect selection.Rect // cmdSelect
}

var errUsage = errors.New("usage")

const helpText = `Commands:
  /page N               Show page N
  /next, /prev          Move one page
  /zoom in|out|reset    Change the zoom
  /select x1 y1 x2 y2   Recognize a region of the shown page (pixels)
  /regen                Regenerate the last reply
  /clear                Clear the conversation
  /export [path]        Export the conversation (.md, .html or .txt)
  /copy                 Copy the conversation to the clipboard
  /help                 Show this help
  /quit                 Exit`

// parseCommand parses one submitted input line.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdSend, text: line}, nil
	}

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "/page":
		if len(args) != 1 {
			return command{}, fmt.Errorf("%w: /page N", errUsage)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("%w: /page N", errUsage)
		}
		return command{kind: cmdPage, page: n}, nil

	case "/next":
		return command{kind: cmdNext}, nil

	case "/prev":
		return command{kind: cmdPrev}, nil

	case "/zoom":
		if len(args) != 1 || (args[0] != "in" && args[0] != "out" && args[0] != "reset") {
			return command{}, fmt.Errorf("%w: /zoom in|out|reset", errUsage)
		}
		return command{kind: cmdZoom, text: args[0]}, nil

	case "/select":
		r, err := parseRectArgs(args)
		if err != nil {
			return command{}, err
		}
		return command{kind: cmdSelect, rect: r}, nil

	case "/regen":
		return command{kind: cmdRegen}, nil

	case "/clear":
		return command{kind: cmdClear}, nil

	case "/export":
		c := command{kind: cmdExport}
		if len(args) > 0 {
			c.text = strings.Join(args, " ")
		}
		return c, nil

	case "/copy":
		return command{kind: cmdCopy}, nil

	case "/help":
		return command{kind: cmdHelp}, nil

	case "/quit", "/exit":
		return command{kind: cmdQuit}, nil
	}

	return command{}, fmt.Errorf("unknown command %s (try /help)", name)
}

func parseRectArgs(args []string) (selection.Rect, error) {
	if len(args) != 4 {
		return selection.Rect{}, fmt.Errorf("%w: /select x1 y1 x2 y2", errUsage)
	}
	return selection.ParseRect(strings.Join(args, ","))
}
