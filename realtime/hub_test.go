package realtime

import (
	"testing"
	"time"

	"pawlink_server/models"

	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, matchID, userID string) *Client {
	return &Client{
		hub:     h,
		send:    make(chan Event, 8),
		matchID: matchID,
		userID:  userID,
	}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.send:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubBroadcastsToMatchRoomOnly(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	a := newTestClient(h, "m1", "u1")
	b := newTestClient(h, "m1", "u2")
	other := newTestClient(h, "m2", "u3")
	h.register <- a
	h.register <- b
	h.register <- other

	h.BroadcastMessage(models.Message{MatchID: "m1", MessageID: "msg1", SenderID: "u1", Content: "Hola"})

	// Both room members receive the event, the sender included.
	for _, c := range []*Client{a, b} {
		ev := receiveEvent(t, c)
		require.Equal(t, models.EventNewMessage, ev.Type)
		require.Equal(t, "msg1", ev.Message.MessageID)
	}

	select {
	case ev := <-other.send:
		t.Fatalf("client in another room received %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastsTyping(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	a := newTestClient(h, "m1", "u1")
	b := newTestClient(h, "m1", "u2")
	h.register <- a
	h.register <- b

	h.BroadcastTyping(models.TypingSignal{MatchID: "m1", SenderID: "u1"})

	ev := receiveEvent(t, b)
	require.Equal(t, models.EventTyping, ev.Type)
	require.Equal(t, "u1", ev.Typing.SenderID)
	require.Nil(t, ev.Message)
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	a := newTestClient(h, "m1", "u1")
	h.register <- a
	h.unregister <- a

	select {
	case _, open := <-a.send:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on unregister")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	slow := &Client{hub: h, send: make(chan Event), matchID: "m1", userID: "u1"} // unbuffered, never read
	h.register <- slow

	h.BroadcastMessage(models.Message{MatchID: "m1", MessageID: "msg1"})

	select {
	case _, open := <-slow.send:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}
}
