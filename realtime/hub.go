package realtime

import (
	"log"

	"pawlink_server/models"
)

// Event is a single frame delivered over a match channel. Exactly one of
// Message or Typing is set, according to Type.
type Event struct {
	Type    string               `json:"type"` // "newMessage" | "typing"
	MatchID string               `json:"matchId"`
	Message *models.Message      `json:"message,omitempty"`
	Typing  *models.TypingSignal `json:"typing,omitempty"`
}

// Hub manages active WebSocket clients grouped into per-match rooms and
// fans events out to every client in a room. Senders receive their own
// newMessage events too; the client-side merge deduplicates by message id.
type Hub struct {
	rooms      map[string]map[*Client]bool // matchId -> clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
}

// NewHub creates a new Hub with initialised channels and storage
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		done:       make(chan struct{}),
	}
}

// Run listens for register, unregister, and broadcast events. It should be
// launched as a goroutine and runs until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			room, ok := h.rooms[c.matchID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[c.matchID] = room
			}
			room[c] = true
			log.Printf("👥 User %s joined match %s", c.userID, c.matchID)

		case c := <-h.unregister:
			h.drop(c)

		case ev := <-h.broadcast:
			for c := range h.rooms[ev.MatchID] {
				select {
				case c.send <- ev:
				default:
					// If the client cannot receive, assume it's dead.
					h.drop(c)
				}
			}

		case <-h.done:
			for _, room := range h.rooms {
				for c := range room {
					h.drop(c)
				}
			}
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client
func (h *Hub) Stop() {
	close(h.done)
}

// BroadcastMessage fans a freshly stored message out to the match room
func (h *Hub) BroadcastMessage(msg models.Message) {
	h.broadcast <- Event{
		Type:    models.EventNewMessage,
		MatchID: msg.MatchID,
		Message: &msg,
	}
}

// BroadcastTyping fans an ephemeral typing signal out to the match room.
// Nothing is persisted; a dropped signal only means the indicator does not
// show.
func (h *Hub) BroadcastTyping(signal models.TypingSignal) {
	h.broadcast <- Event{
		Type:    models.EventTyping,
		MatchID: signal.MatchID,
		Typing:  &signal,
	}
}

// drop removes a client from its room and closes its send channel
func (h *Hub) drop(c *Client) {
	room, ok := h.rooms[c.matchID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.matchID)
	}
}
