package realtime

import (
	"context"
	"errors"
	"log"
	"net/http"

	"pawlink_server/models"
	"pawlink_server/services"

	"github.com/gorilla/websocket"
)

// ChatAuthorizer is the slice of MatchService the socket handler needs to
// guard room joins.
type ChatAuthorizer interface {
	AuthorizeChat(ctx context.Context, matchID, userID string) (models.MatchWithPets, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the HTTP layer; the socket accepts any origin here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and joins the client to its match room.
// The join is refused with the same taxonomy as the HTTP chat endpoints:
// unknown match 404, non-participant or unmatched 403.
func ServeWS(hub *Hub, guard ChatAuthorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchId")
		userID := r.URL.Query().Get("userId")
		if matchID == "" || userID == "" {
			http.Error(w, `{"error": "matchId and userId are required"}`, http.StatusBadRequest)
			return
		}

		if _, err := guard.AuthorizeChat(r.Context(), matchID, userID); err != nil {
			switch {
			case errors.Is(err, services.ErrMatchNotFound):
				http.Error(w, `{"error": "Match not found"}`, http.StatusNotFound)
			case errors.Is(err, services.ErrNotParticipant), errors.Is(err, services.ErrNotMatched):
				http.Error(w, `{"error": "Chat is not available for this match"}`, http.StatusForbidden)
			default:
				http.Error(w, `{"error": "Failed to verify match"}`, http.StatusInternalServerError)
			}
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			hub:     hub,
			conn:    conn,
			send:    make(chan Event, 32),
			matchID: matchID,
			userID:  userID,
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
