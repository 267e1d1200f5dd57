package realtime

import (
	"log"
	"time"

	"pawlink_server/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Backend throttle for typing signals to avoid accidental spam.
	// The client debounces too, but this is extra safety.
	typingMinInterval = 200 * time.Millisecond
)

// Client represents a single WebSocket connection joined to one match room
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan Event
	matchID string
	userID  string
}

// inboundFrame is what a connected client sends to the server. Messages
// themselves go over the HTTP send endpoint; the socket only carries the
// ephemeral typing signal upstream.
type inboundFrame struct {
	Type string `json:"type"` // "typing"
}

// readPump reads JSON frames from the connection and routes typing signals
// to the hub. It unregisters the client on any read error.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var lastTypingSent time.Time
	for {
		var in inboundFrame
		if err := c.conn.ReadJSON(&in); err != nil {
			break
		}

		switch in.Type {
		case models.EventTyping:
			if time.Since(lastTypingSent) < typingMinInterval {
				continue
			}
			lastTypingSent = time.Now()
			c.hub.BroadcastTyping(models.TypingSignal{
				MatchID:  c.matchID,
				SenderID: c.userID,
			})
		default:
			log.Printf("⚠️ Ignoring unknown frame type %q from user %s", in.Type, c.userID)
		}
	}
}

// writePump delivers hub events to the connection and keeps it alive with
// pings. It exits when the hub closes the send channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
