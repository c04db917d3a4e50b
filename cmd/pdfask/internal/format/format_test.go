package format

import (
	"testing"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/germanamz/pdfask/pkg/selection"
	"github.com/stretchr/testify/assert"
)

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{100 * time.Millisecond, "0.1s"},
		{2 * time.Second, "2.0s"},
		{65 * time.Second, "1m 5s"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FmtDuration(tt.input), "FmtDuration(%v)", tt.input)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel...", Truncate("hello world", 6))
	assert.Equal(t, "hello world", Truncate("hello\nworld", 20))
	assert.Empty(t, Truncate("", 5))
}

func TestTruncate_WideRunes(t *testing.T) {
	// Each CJK rune takes two cells.
	assert.Equal(t, "傅里叶", Truncate("傅里叶", 6))
	assert.Equal(t, "傅...", Truncate("傅里叶变换", 6))
}

func TestRenderTurn_User(t *testing.T) {
	at := time.Date(2025, 1, 1, 9, 8, 7, 0, time.UTC)
	sel := &selection.TextSelection{Text: "Bayes rule", PageNumber: 12}
	m := message.New(role.User, "line one\nline two", at).WithSelection(sel)

	out := RenderTurn(m, i18n.For(i18n.English), 80)

	assert.Contains(t, out, "User")
	assert.Contains(t, out, "09:08:07")
	assert.Contains(t, out, "Selected Text (Page 12): Bayes rule")
	assert.Contains(t, out, "└ line one")
	assert.Contains(t, out, "\n   line two")
}

func TestRenderTurn_Error(t *testing.T) {
	m := message.New(role.Assistant, "API key is not configured.", time.Now())
	m.SetMeta(conversation.MetaError, true)

	out := RenderTurn(m, i18n.For(i18n.English), 80)

	assert.Contains(t, out, "AI Assistant")
	assert.Contains(t, out, "API key is not configured.")
}
