// Package conversation holds the ordered log of user and assistant turns for
// one reading session.
//
// A [Store] appends the user's turn, asks a [Responder] for the reply and
// appends it (or a localized error turn) once it arrives. Changes are
// published on an [EventBus] so front-ends can redraw.
package conversation

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/chat"
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/selection"
)

// MetaError marks assistant turns that carry an error description instead of
// a model reply.
const MetaError = "error"

// Responder produces the assistant reply for turn given the preceding
// history, oldest first.
type Responder interface {
	Respond(ctx context.Context, history []message.Message, turn message.Message) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, history []message.Message, turn message.Message) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, history []message.Message, turn message.Message) (string, error) {
	return f(ctx, history, turn)
}

// Describer turns a responder error into the text of the error turn.
type Describer interface {
	Describe(err error) string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock replaces time.Now for turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDescriber sets how responder errors become turn text. It defaults to
// the responder itself when it implements Describer, else err.Error().
func WithDescriber(d Describer) Option {
	return func(s *Store) { s.describer = d }
}

// Store is the conversation log. It is safe for concurrent use.
type Store struct {
	responder Responder
	describer Describer
	log       *slog.Logger
	now       func() time.Time
	bus       *EventBus

	mu      sync.Mutex
	chat    *chat.Chat
	epoch   uint64
	pending int
}

// New creates an empty Store that asks responder for replies.
func New(responder Responder, opts ...Option) *Store {
	s := &Store{
		responder: responder,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		bus:       NewEventBus(),
		chat:      chat.New(),
	}
	if d, ok := responder.(Describer); ok {
		s.describer = d
	}
	for _, o := range opts {
		o(s)
	}

	return s
}

// Subscribe returns a subscription to store changes.
func (s *Store) Subscribe(bufSize int) *Subscription { return s.bus.Subscribe(bufSize) }

// Unsubscribe closes sub.
func (s *Store) Unsubscribe(sub *Subscription) { s.bus.Unsubscribe(sub) }

// Send appends a user turn carrying content and the optional selection, then
// blocks until the reply is appended. It returns the assistant turn, or false
// when the conversation was cleared while the reply was in flight.
func (s *Store) Send(ctx context.Context, content string, sel *selection.TextSelection) (message.Message, bool) {
	turn := message.New(role.User, content, s.now()).WithSelection(sel)

	s.mu.Lock()
	history := s.chat.Messages()
	s.chat.Append(turn)
	s.publish(Event{Kind: EventTurnAppended, Turn: turn})
	epoch := s.begin()
	s.mu.Unlock()

	return s.exchange(ctx, epoch, history, turn)
}

// Regenerate replaces the last assistant turn with a fresh reply to the user
// turn before it. It is a no-op returning false unless the conversation ends
// with a user turn followed by an assistant turn.
func (s *Store) Regenerate(ctx context.Context) (message.Message, bool) {
	s.mu.Lock()

	turn, _, before, ok := s.chat.LastExchange()
	if !ok {
		s.mu.Unlock()
		return message.Message{}, false
	}

	removed, _ := s.chat.RemoveLast()
	history := s.chat.Messages()[:before]
	s.publish(Event{Kind: EventTurnRemoved, Turn: removed})
	epoch := s.begin()
	s.mu.Unlock()

	s.log.Debug("regenerating reply", "turn", turn.ID)

	return s.exchange(ctx, epoch, history, turn)
}

// Clear empties the conversation. Replies still in flight are discarded.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chat.Clear()
	s.epoch++
	s.publish(Event{Kind: EventCleared})

	if s.pending > 0 {
		s.pending = 0
		s.publish(Event{Kind: EventLoadingChanged})
	}
}

// Loading reports whether a reply is being awaited.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending > 0
}

// Turns returns a copy of all turns, oldest first.
func (s *Store) Turns() []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chat.Messages()
}

// Len returns the number of turns.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chat.Len()
}

// Last returns the newest turn.
func (s *Store) Last() (message.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chat.Last()
}

// exchange asks the responder and appends the reply if the conversation has
// not been cleared since epoch.
func (s *Store) exchange(ctx context.Context, epoch uint64, history []message.Message, turn message.Message) (message.Message, bool) {
	text, err := s.responder.Respond(ctx, history, turn)

	reply := message.New(role.Assistant, text, s.now())
	if err != nil {
		s.log.Warn("reply failed", "turn", turn.ID, "error", err)
		reply.Content = s.describe(err)
		reply.SetMeta(MetaError, true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		s.log.Debug("dropping reply for cleared conversation", "turn", turn.ID)
		return message.Message{}, false
	}

	s.chat.Append(reply)
	s.publish(Event{Kind: EventTurnAppended, Turn: reply})
	s.end()

	return reply, true
}

func (s *Store) describe(err error) string {
	if s.describer != nil {
		return s.describer.Describe(err)
	}
	return err.Error()
}

// begin raises the loading flag and returns the current epoch. Callers hold mu.
func (s *Store) begin() uint64 {
	s.pending++
	if s.pending == 1 {
		s.publish(Event{Kind: EventLoadingChanged, Loading: true})
	}
	return s.epoch
}

// end lowers the loading flag. Callers hold mu.
func (s *Store) end() {
	s.pending--
	if s.pending == 0 {
		s.publish(Event{Kind: EventLoadingChanged})
	}
}

func (s *Store) publish(e Event) {
	e.Timestamp = s.now()
	s.bus.Publish(e)
}
