package models

// ✅ Per-side swipe decisions
const (
	SideStatusPending  = "pending"
	SideStatusAccepted = "accepted"
	SideStatusRejected = "rejected"
)

// ✅ Derived overall match statuses
const (
	MatchStatusPending  = "pending"
	MatchStatusMatched  = "matched"
	MatchStatusRejected = "rejected"
)

// ✅ Realtime event types carried over the match channel
const (
	EventNewMessage = "newMessage"
	EventTyping     = "typing"
)

// TypingSignal is the ephemeral broadcast payload for the typing indicator.
// It is never persisted.
type TypingSignal struct {
	MatchID  string `json:"matchId"`
	SenderID string `json:"senderId"`
}
