package conversation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	history []message.Message
	turn    message.Message
}

type fakeResponder struct {
	mu      sync.Mutex
	calls   []call
	replies []string
	err     error
}

func (f *fakeResponder) Respond(_ context.Context, history []message.Message, turn message.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call{history: history, turn: turn})
	if f.err != nil {
		return "", f.err
	}

	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}

	return r, nil
}

type describer struct{}

func (describer) Describe(err error) string { return "described: " + err.Error() }

func TestStore_Send(t *testing.T) {
	resp := &fakeResponder{replies: []string{"Hello"}}
	s := conversation.New(resp)

	reply, ok := s.Send(context.Background(), "Hi", nil)
	require.True(t, ok)

	assert.Equal(t, role.Assistant, reply.Role)
	assert.Equal(t, "Hello", reply.Content)
	assert.NotEmpty(t, reply.ID)
	assert.False(t, s.Loading())

	turns := s.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, role.User, turns[0].Role)
	assert.Equal(t, "Hi", turns[0].Content)
	assert.NotEqual(t, turns[0].ID, turns[1].ID)

	require.Len(t, resp.calls, 1)
	assert.Empty(t, resp.calls[0].history)
}

func TestStore_SendWithSelection(t *testing.T) {
	resp := &fakeResponder{replies: []string{"ok"}}
	s := conversation.New(resp)

	sel := &selection.TextSelection{Text: "Eigenvalues", PageNumber: 2}
	_, ok := s.Send(context.Background(), "Explain", sel)
	require.True(t, ok)

	first := s.Turns()[0]
	require.True(t, first.HasSelection())
	assert.Equal(t, "Eigenvalues", first.Selection.Text)
	assert.Equal(t, 2, resp.calls[0].turn.Selection.PageNumber)
}

func TestStore_SendPassesHistory(t *testing.T) {
	resp := &fakeResponder{replies: []string{"a1", "a2"}}
	s := conversation.New(resp)

	s.Send(context.Background(), "q1", nil)
	s.Send(context.Background(), "q2", nil)

	require.Len(t, resp.calls, 2)
	require.Len(t, resp.calls[1].history, 2)
	assert.Equal(t, "q1", resp.calls[1].history[0].Content)
	assert.Equal(t, "a1", resp.calls[1].history[1].Content)
	assert.Equal(t, "q2", resp.calls[1].turn.Content)
	assert.Equal(t, 4, s.Len())
}

func TestStore_ErrorBecomesTurn(t *testing.T) {
	resp := &fakeResponder{err: errors.New("boom")}
	s := conversation.New(resp, conversation.WithDescriber(describer{}))

	reply, ok := s.Send(context.Background(), "Hi", nil)
	require.True(t, ok)

	assert.Equal(t, "described: boom", reply.Content)
	v, found := reply.GetMeta(conversation.MetaError)
	assert.True(t, found)
	assert.Equal(t, true, v)
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Loading())
}

func TestStore_ErrorWithoutDescriber(t *testing.T) {
	s := conversation.New(&fakeResponder{err: errors.New("boom")})

	reply, _ := s.Send(context.Background(), "Hi", nil)

	assert.Equal(t, "boom", reply.Content)
}

func TestStore_Regenerate(t *testing.T) {
	resp := &fakeResponder{replies: []string{"first", "second"}}
	s := conversation.New(resp)

	s.Send(context.Background(), "A", nil)
	before := s.Turns()

	reply, ok := s.Regenerate(context.Background())
	require.True(t, ok)
	assert.Equal(t, "second", reply.Content)

	turns := s.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, before[0].ID, turns[0].ID)
	assert.Equal(t, "A", turns[0].Content)
	assert.Equal(t, "second", turns[1].Content)

	require.Len(t, resp.calls, 2)
	assert.Empty(t, resp.calls[1].history)
	assert.Equal(t, before[0].ID, resp.calls[1].turn.ID)
}

func TestStore_RegenerateKeepsSelection(t *testing.T) {
	resp := &fakeResponder{replies: []string{"r"}}
	s := conversation.New(resp)

	sel := &selection.TextSelection{Text: "Lemma 3", PageNumber: 9}
	s.Send(context.Background(), "Explain", sel)

	_, ok := s.Regenerate(context.Background())
	require.True(t, ok)

	require.True(t, resp.calls[1].turn.HasSelection())
	assert.Equal(t, "Lemma 3", resp.calls[1].turn.Selection.Text)
}

func TestStore_RegenerateNoop(t *testing.T) {
	resp := &fakeResponder{replies: []string{"r"}}
	s := conversation.New(resp)

	_, ok := s.Regenerate(context.Background())
	assert.False(t, ok)

	s.Send(context.Background(), "q", nil)
	s.Clear()
	_, ok = s.Regenerate(context.Background())
	assert.False(t, ok)
	assert.Len(t, resp.calls, 1)
}

func TestStore_RegenerateEndingInUserTurnIsNoop(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := conversation.New(conversation.ResponderFunc(func(context.Context, []message.Message, message.Message) (string, error) {
		close(started)
		<-release
		return "late", nil
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Send(context.Background(), "pending", nil)
	}()

	<-started
	_, ok := s.Regenerate(context.Background())
	assert.False(t, ok)
	assert.True(t, s.Loading())

	close(release)
	<-done
	assert.False(t, s.Loading())
}

func TestStore_ClearDropsInFlightReply(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := conversation.New(conversation.ResponderFunc(func(context.Context, []message.Message, message.Message) (string, error) {
		close(started)
		<-release
		return "stale", nil
	}))

	var (
		ok   bool
		done = make(chan struct{})
	)
	go func() {
		defer close(done)
		_, ok = s.Send(context.Background(), "q", nil)
	}()

	<-started
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Loading())

	close(release)
	<-done

	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Loading())
}

func TestStore_Last(t *testing.T) {
	s := conversation.New(&fakeResponder{replies: []string{"r"}})

	_, ok := s.Last()
	assert.False(t, ok)

	s.Send(context.Background(), "q", nil)

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "r", last.Content)
}

func TestStore_Events(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := conversation.New(&fakeResponder{replies: []string{"r"}}, conversation.WithClock(func() time.Time { return fixed }))

	sub := s.Subscribe(16)
	defer s.Unsubscribe(sub)

	s.Send(context.Background(), "q", nil)
	s.Clear()

	var kinds []conversation.EventKind
	for range 5 {
		select {
		case e := <-sub.C:
			kinds = append(kinds, e.Kind)
			assert.Equal(t, fixed, e.Timestamp)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}

	assert.Equal(t, []conversation.EventKind{
		conversation.EventTurnAppended,
		conversation.EventLoadingChanged,
		conversation.EventTurnAppended,
		conversation.EventLoadingChanged,
		conversation.EventCleared,
	}, kinds)
}
