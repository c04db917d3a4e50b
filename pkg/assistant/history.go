package assistant

import (
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/modeladapter"
)

// HistoryPolicy bounds how much of the conversation is sent as context.
type HistoryPolicy struct {
	MaxTurns    int // Most recent turns considered (0 = all).
	TokenBudget int // Estimated token budget for those turns (0 = unlimited).
}

// DefaultHistoryPolicy keeps the last 6 turns within 3000 estimated tokens.
var DefaultHistoryPolicy = HistoryPolicy{MaxTurns: 6, TokenBudget: 3000}

// Apply returns the suffix of history that fits the policy. Only user and
// assistant turns are kept.
func (p HistoryPolicy) Apply(history []message.Message) []message.Message {
	out := make([]message.Message, 0, len(history))
	for _, m := range history {
		if m.Role == role.User || m.Role == role.Assistant {
			out = append(out, m)
		}
	}

	if p.MaxTurns > 0 && len(out) > p.MaxTurns {
		out = out[len(out)-p.MaxTurns:]
	}

	if p.TokenBudget > 0 {
		var est modeladapter.TokenEstimator
		out = est.TruncateHistory(out, p.TokenBudget)
	}

	return out
}
