package client

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"pawlink_server/chatsession"
	"pawlink_server/models"
	"pawlink_server/realtime"

	"github.com/gorilla/websocket"
)

// WSRelay implements chatsession.Relay over the server's /ws endpoint
type WSRelay struct {
	BaseURL string
	UserID  string
}

// NewWSRelay creates a relay dialing the given server for one user
func NewWSRelay(baseURL, userID string) *WSRelay {
	return &WSRelay{BaseURL: baseURL, UserID: userID}
}

// wsSubscription is one open socket joined to a match room
type wsSubscription struct {
	conn *websocket.Conn
	once sync.Once
}

// Cancel closes the socket, which ends the read loop
func (s *wsSubscription) Cancel() {
	s.once.Do(func() {
		_ = s.conn.Close()
	})
}

// SendTyping broadcasts a typing signal to the match room. Best-effort:
// a failed write is reported but never retried.
func (s *wsSubscription) SendTyping() error {
	return s.conn.WriteJSON(map[string]string{"type": models.EventTyping})
}

// Subscribe dials the match room and dispatches inbound events until the
// subscription is cancelled or the connection drops. There is no automatic
// reconnect; the embedder re-subscribes and calls Session.Resync.
func (r *WSRelay) Subscribe(matchID string, onMessage func(models.Message), onTyping func(models.TypingSignal)) (chatsession.Subscription, error) {
	conn, _, err := websocket.DefaultDialer.Dial(r.wsEndpoint(matchID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to join match room: %w", err)
	}

	sub := &wsSubscription{conn: conn}
	go func() {
		defer sub.Cancel()
		for {
			var ev realtime.Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			switch ev.Type {
			case models.EventNewMessage:
				if ev.Message != nil {
					onMessage(*ev.Message)
				}
			case models.EventTyping:
				if ev.Typing != nil {
					onTyping(*ev.Typing)
				}
			}
		}
	}()

	return sub, nil
}

func (r *WSRelay) wsEndpoint(matchID string) string {
	base := r.BaseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return fmt.Sprintf("%s/ws?matchId=%s&userId=%s", base, url.QueryEscape(matchID), url.QueryEscape(r.UserID))
}
