package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pawlink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrEmptyMessage is returned when a send contains only whitespace
var ErrEmptyMessage = errors.New("message content is empty")

// ChatService handles message history, sending and read receipts
type ChatService struct {
	Dynamo *DynamoService
}

// GetMessagesByMatchID fetches messages for a match in rendering order
// (oldest first). createdAt is the sort key, so DynamoDB returns them
// ascending already; the explicit sort applies the seq/id tie-break.
func (s *ChatService) GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error) {
	keyCondition := "#matchId = :matchId"
	expressionValues := map[string]types.AttributeValue{
		":matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	expressionNames := map[string]string{
		"#matchId": "matchId",
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, int32(limit), false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	models.SortMessages(messages)
	return messages, nil
}

// SendMessage validates and persists an outgoing message, assigning id,
// timestamp and seq server-side, and returns the stored record. A
// whitespace-only body is rejected before any write happens.
func (s *ChatService) SendMessage(ctx context.Context, matchID, senderID, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, ErrEmptyMessage
	}

	now := time.Now().UTC()
	message := models.Message{
		MatchID:   matchID,
		CreatedAt: now.Format(models.MessageTimeLayout),
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Content:   content,
		Read:      false,
		Seq:       now.UnixNano(),
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return models.Message{}, fmt.Errorf("failed to store message: %w", err)
	}

	log.Printf("📩 Stored message %s for match %s", message.MessageID, matchID)
	return message, nil
}

// MarkMessagesAsRead flips the read flag on every message in the match that
// was not sent by readerID. The condition keeps the flag monotonic and stops
// a reader from marking their own messages.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, matchID, readerID string) error {
	messages, err := s.GetMessagesByMatchID(ctx, matchID, 100)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if msg.SenderID == readerID || msg.Read {
			continue
		}
		if err := s.MarkMessageRead(ctx, msg, readerID); err != nil {
			log.Printf("⚠️ Failed to mark message %s as read: %v", msg.MessageID, err)
		}
	}
	return nil
}

// MarkMessageRead flips the read flag on a single message. The conditional
// update only applies when the reader is not the author and the flag is still
// false; a failed condition is treated as a no-op.
func (s *ChatService) MarkMessageRead(ctx context.Context, msg models.Message, readerID string) error {
	key := map[string]types.AttributeValue{
		"matchId":   &types.AttributeValueMemberS{Value: msg.MatchID},
		"createdAt": &types.AttributeValueMemberS{Value: msg.CreatedAt},
	}
	updateExpression := "SET #read = :true"
	conditionExpression := "senderId <> :reader AND #read = :false"
	expressionValues := map[string]types.AttributeValue{
		":true":   &types.AttributeValueMemberBOOL{Value: true},
		":false":  &types.AttributeValueMemberBOOL{Value: false},
		":reader": &types.AttributeValueMemberS{Value: readerID},
	}
	expressionNames := map[string]string{
		"#read": "read", // reserved word in DynamoDB expressions
	}

	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MessagesTable, updateExpression, conditionExpression, key, expressionValues, expressionNames)
	if errors.Is(err, ErrConditionFailed) {
		return nil
	}
	return err
}
