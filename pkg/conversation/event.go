package conversation

import (
	"sync"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/message"
)

// EventKind identifies the type of store change.
type EventKind string

const (
	EventTurnAppended   EventKind = "turn_appended"
	EventTurnRemoved    EventKind = "turn_removed"
	EventCleared        EventKind = "cleared"
	EventLoadingChanged EventKind = "loading_changed"
)

// Event is an immutable notification of a store change. Turn is set for
// appended and removed turns; Loading carries the flag after the change.
type Event struct {
	Kind      EventKind
	Turn      message.Message
	Loading   bool
	Timestamp time.Time
}

// Subscription receives events from an EventBus.
type Subscription struct {
	C  <-chan Event
	ch chan Event
}

// EventBus fans out events to all active subscribers. It is safe for
// concurrent use.
type EventBus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewEventBus creates an EventBus ready for use.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe creates a new subscription with the given channel buffer size.
// The caller should read from sub.C and eventually call Unsubscribe.
func (b *EventBus) Subscribe(bufSize int) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish sends an event to all subscribers. A subscriber whose buffer is
// full misses the event; front-ends re-read the store on every event they do
// receive, so a dropped event only delays a redraw.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
		}
	}
}
