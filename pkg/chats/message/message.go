// Package message defines the Message type used in conversations.
package message

import (
	"time"

	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/selection"
	"github.com/google/uuid"
)

// Message is a single turn in a conversation.
// It is a value type that copies cheaply.
type Message struct {
	ID        string
	Role      role.Role
	Content   string
	Timestamp time.Time
	Selection *selection.TextSelection
	Metadata  map[string]any
}

// New creates a message with a fresh random ID.
func New(r role.Role, text string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      r,
		Content:   text,
		Timestamp: at,
	}
}

// WithSelection returns a copy of m carrying sel. A nil sel detaches any
// selection.
func (m Message) WithSelection(sel *selection.TextSelection) Message {
	if sel != nil {
		cp := *sel
		sel = &cp
	}
	m.Selection = sel

	return m
}

// HasSelection reports whether the message carries PDF selection context.
func (m Message) HasSelection() bool {
	return m.Selection != nil
}

// SetMeta sets a metadata key-value pair on the message.
// It initializes the Metadata map if nil.
func (m *Message) SetMeta(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// GetMeta retrieves a metadata value by key.
func (m Message) GetMeta(key string) (any, bool) {
	if m.Metadata == nil {
		return nil, false
	}
	v, ok := m.Metadata[key]
	return v, ok
}
