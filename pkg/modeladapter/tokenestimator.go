package modeladapter

import (
	"math"
	"unicode/utf8"

	"github.com/germanamz/pdfask/pkg/chats/chat"
	"github.com/germanamz/pdfask/pkg/chats/message"
)

const (
	// charsPerToken is the estimate for Latin script and everything else
	// that is not a CJK ideograph.
	charsPerToken = 4.0
	// cjkCharsPerToken is the estimate for CJK unified ideographs.
	cjkCharsPerToken = 1.5
)

// TokenEstimator estimates token counts for conversation text. It counts CJK
// unified ideographs (U+4E00..U+9FA5) at about 1.5 characters per token and
// every other rune at about 4 characters per token. The zero value is ready
// to use.
type TokenEstimator struct{}

// isCJK reports whether r is in the basic CJK unified ideograph block.
func isCJK(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FA5
}

// EstimateText estimates the tokens in s, rounded up.
func (e *TokenEstimator) EstimateText(s string) int {
	cjk := 0
	for _, r := range s {
		if isCJK(r) {
			cjk++
		}
	}
	other := utf8.RuneCountInString(s) - cjk

	return int(math.Ceil(float64(cjk)/cjkCharsPerToken + float64(other)/charsPerToken))
}

// EstimateChat estimates the tokens of every message content in c.
func (e *TokenEstimator) EstimateChat(c *chat.Chat) int {
	tokens := 0
	c.Each(func(_ int, m message.Message) bool {
		tokens += e.EstimateText(m.Content)
		return true
	})

	return tokens
}

// TruncateHistory keeps the most recent messages whose combined estimate fits
// in budget. It walks from the newest message backwards and stops at the
// first one that would overflow, so the result is always a suffix of msgs.
func (e *TokenEstimator) TruncateHistory(msgs []message.Message, budget int) []message.Message {
	total := 0
	start := len(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		tokens := e.EstimateText(msgs[i].Content)
		if total+tokens > budget {
			break
		}
		total += tokens
		start = i
	}

	out := make([]message.Message, len(msgs)-start)
	copy(out, msgs[start:])

	return out
}
