package chatui

import (
	"testing"

	"github.com/germanamz/pdfask/pkg/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"what is this?", command{kind: cmdSend, text: "what is this?"}},
		{"  /page 4 ", command{kind: cmdPage, page: 4}},
		{"/next", command{kind: cmdNext}},
		{"/prev", command{kind: cmdPrev}},
		{"/zoom in", command{kind: cmdZoom, text: "in"}},
		{"/select 10 20 110 80.5", command{kind: cmdSelect, rect: selection.Rect{StartX: 10, StartY: 20, EndX: 110, EndY: 80.5}}},
		{"/regen", command{kind: cmdRegen}},
		{"/clear", command{kind: cmdClear}},
		{"/export", command{kind: cmdExport}},
		{"/export my notes.md", command{kind: cmdExport, text: "my notes.md"}},
		{"/copy", command{kind: cmdCopy}},
		{"/help", command{kind: cmdHelp}},
		{"/exit", command{kind: cmdQuit}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"/page", "/page two", "/zoom sideways", "/select 1 2 3", "/select a b c d", "/bogus"} {
		_, err := parseCommand(line)
		assert.Error(t, err, line)
	}
}
