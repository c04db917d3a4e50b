// Package chat provides a mutable conversation container.
package chat

import (
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
)

// Chat is a mutable conversation container. The zero value is ready to use.
// Chat is not safe for concurrent use; callers must synchronize externally.
type Chat struct {
	messages []message.Message
}

// New creates a Chat pre-populated with the given messages.
func New(msgs ...message.Message) *Chat {
	return &Chat{messages: msgs}
}

// Append adds one or more messages to the conversation.
func (c *Chat) Append(msgs ...message.Message) {
	c.messages = append(c.messages, msgs...)
}

// Len returns the number of messages in the conversation.
func (c *Chat) Len() int {
	return len(c.messages)
}

// At returns the message at the given index.
// It panics if the index is out of range.
func (c *Chat) At(index int) message.Message {
	return c.messages[index]
}

// Last returns the most recent message and true, or a zero Message and false
// if the conversation is empty.
func (c *Chat) Last() (message.Message, bool) {
	if len(c.messages) == 0 {
		return message.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// RemoveLast drops the most recent message and returns it. It returns false
// if the conversation is empty.
func (c *Chat) RemoveLast() (message.Message, bool) {
	last, ok := c.Last()
	if !ok {
		return message.Message{}, false
	}
	c.messages[len(c.messages)-1] = message.Message{}
	c.messages = c.messages[:len(c.messages)-1]
	return last, true
}

// Clear removes every message.
func (c *Chat) Clear() {
	c.messages = nil
}

// Messages returns a copy of all messages in the conversation.
func (c *Chat) Messages() []message.Message {
	cp := make([]message.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// Each iterates over messages, calling fn for each one. If fn returns false,
// iteration stops early.
func (c *Chat) Each(fn func(int, message.Message) bool) {
	for i, m := range c.messages {
		if !fn(i, m) {
			return
		}
	}
}

// LastExchange returns the trailing user question and assistant reply, and
// the number of messages before the question. It returns false unless the
// conversation ends with a user message followed by an assistant message.
func (c *Chat) LastExchange() (question, reply message.Message, before int, ok bool) {
	n := len(c.messages)
	if n < 2 || c.messages[n-2].Role != role.User || c.messages[n-1].Role != role.Assistant {
		return message.Message{}, message.Message{}, 0, false
	}
	return c.messages[n-2], c.messages[n-1], n - 2, true
}
