package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"pawlink_server/models"
	"pawlink_server/services"
)

// ChatAPI is the slice of ChatService the controller uses
type ChatAPI interface {
	GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error)
	SendMessage(ctx context.Context, matchID, senderID, content string) (models.Message, error)
	MarkMessagesAsRead(ctx context.Context, matchID, readerID string) error
}

// MatchGuard verifies chat access before any message is touched
type MatchGuard interface {
	AuthorizeChat(ctx context.Context, matchID, userID string) (models.MatchWithPets, error)
}

// MessageBroadcaster fans stored messages out to the realtime match room
type MessageBroadcaster interface {
	BroadcastMessage(msg models.Message)
}

// ChatController handles HTTP requests for chat operations
type ChatController struct {
	Chat  ChatAPI
	Guard MatchGuard
	Relay MessageBroadcaster
}

// NewChatController initializes the chat controller
func NewChatController(chat ChatAPI, guard MatchGuard, relay MessageBroadcaster) *ChatController {
	return &ChatController{Chat: chat, Guard: guard, Relay: relay}
}

// HandleGetMessages fetches the message history for a match. Messages the
// caller has not sent are marked read asynchronously; a failure there is
// logged and never surfaced.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	userID := r.URL.Query().Get("userId")
	if matchID == "" || userID == "" {
		http.Error(w, `{"error": "matchId and userId are required"}`, http.StatusBadRequest)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	if _, err := c.Guard.AuthorizeChat(r.Context(), matchID, userID); err != nil {
		writeGuardError(w, err)
		return
	}

	messages, err := c.Chat.GetMessagesByMatchID(r.Context(), matchID, limit)
	if err != nil {
		log.Printf("❌ Error fetching messages: %v", err)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	// Fire-and-forget read receipts for messages the caller just saw.
	go func() {
		if err := c.Chat.MarkMessagesAsRead(context.Background(), matchID, userID); err != nil {
			log.Printf("⚠️ Failed to mark messages as read for match %s: %v", matchID, err)
		}
	}()

	writeJSON(w, http.StatusOK, messages)
}

// HandleSendMessage persists a new message and fans it out to the match room
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID  string `json:"matchId"`
		SenderID string `json:"senderId"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.MatchID == "" || request.SenderID == "" {
		http.Error(w, `{"error": "Missing required fields: matchId or senderId"}`, http.StatusBadRequest)
		return
	}

	if _, err := c.Guard.AuthorizeChat(r.Context(), request.MatchID, request.SenderID); err != nil {
		writeGuardError(w, err)
		return
	}

	message, err := c.Chat.SendMessage(r.Context(), request.MatchID, request.SenderID, request.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			http.Error(w, `{"error": "Message content cannot be empty"}`, http.StatusBadRequest)
			return
		}
		log.Printf("❌ Failed to send message: %v", err)
		http.Error(w, `{"error": "Failed to send message"}`, http.StatusInternalServerError)
		return
	}

	c.Relay.BroadcastMessage(message)
	writeJSON(w, http.StatusOK, message)
}

// HandleMarkMessagesAsRead marks messages received by a user as read
func (c *ChatController) HandleMarkMessagesAsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID string `json:"matchId"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.MatchID == "" || request.UserID == "" {
		http.Error(w, `{"error": "Missing required fields: matchId or userId"}`, http.StatusBadRequest)
		return
	}

	if _, err := c.Guard.AuthorizeChat(r.Context(), request.MatchID, request.UserID); err != nil {
		writeGuardError(w, err)
		return
	}

	if err := c.Chat.MarkMessagesAsRead(r.Context(), request.MatchID, request.UserID); err != nil {
		http.Error(w, `{"error": "Failed to mark messages as read"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
