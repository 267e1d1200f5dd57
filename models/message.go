package models

import "sort"

// MessageTimeLayout is a fixed-width RFC3339 layout. Unlike time.RFC3339Nano it
// never drops trailing zeros, so stored timestamps compare correctly as strings
// (createdAt is the table's sort key).
const MessageTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Message represents a single chat message within a match
type Message struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"`     // ✅ Partition Key
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key
	MessageID string `dynamodbav:"messageId" json:"messageId"` // Server-assigned UUID
	SenderID  string `dynamodbav:"senderId" json:"senderId"`   // Owner who sent it
	Content   string `dynamodbav:"content" json:"content"`
	Read      bool   `dynamodbav:"read" json:"read"`
	Seq       int64  `dynamodbav:"seq" json:"seq"` // Tie-break for identical timestamps
}

// Less orders messages by creation time, then seq, then message id, so two
// messages never compare equal and rendering order is deterministic.
func (m Message) Less(other Message) bool {
	if m.CreatedAt != other.CreatedAt {
		return m.CreatedAt < other.CreatedAt
	}
	if m.Seq != other.Seq {
		return m.Seq < other.Seq
	}
	return m.MessageID < other.MessageID
}

// SortMessages sorts messages into rendering order (oldest first)
func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Less(messages[j])
	})
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
