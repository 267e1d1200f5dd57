package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"pawlink_server/models"
	"pawlink_server/services"

	"github.com/stretchr/testify/require"
)

type fakeChatAPI struct {
	mu        sync.Mutex
	messages  []models.Message
	fetchHits int
	readHits  int
}

func (f *fakeChatAPI) GetMessagesByMatchID(_ context.Context, matchID string, limit int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchHits++
	return f.messages, nil
}

func (f *fakeChatAPI) SendMessage(_ context.Context, matchID, senderID, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, services.ErrEmptyMessage
	}
	return models.Message{
		MatchID:   matchID,
		MessageID: "generated-id",
		SenderID:  senderID,
		Content:   content,
	}, nil
}

func (f *fakeChatAPI) MarkMessagesAsRead(_ context.Context, matchID, readerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readHits++
	return nil
}

func (f *fakeChatAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchHits
}

func (f *fakeChatAPI) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readHits
}

type fakeGuard struct{ err error }

func (g *fakeGuard) AuthorizeChat(_ context.Context, matchID, userID string) (models.MatchWithPets, error) {
	if g.err != nil {
		return models.MatchWithPets{}, g.err
	}
	return models.MatchWithPets{Match: models.Match{MatchID: matchID, MatchStatus: models.MatchStatusMatched}}, nil
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []models.Message
}

func (b *fakeBroadcaster) BroadcastMessage(msg models.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, msg)
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

func TestHandleGetMessagesRequiresParams(t *testing.T) {
	c := NewChatController(&fakeChatAPI{}, &fakeGuard{}, &fakeBroadcaster{})

	req := httptest.NewRequest("GET", "/api/chat/messages?matchId=m1", nil)
	rr := httptest.NewRecorder()
	c.HandleGetMessages(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGetMessagesGuardFailureFetchesNothing(t *testing.T) {
	chat := &fakeChatAPI{}
	c := NewChatController(chat, &fakeGuard{err: services.ErrNotMatched}, &fakeBroadcaster{})

	req := httptest.NewRequest("GET", "/api/chat/messages?matchId=m1&userId=u1", nil)
	rr := httptest.NewRecorder()
	c.HandleGetMessages(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Zero(t, chat.fetchCount())
}

func TestHandleGetMessagesMarksRead(t *testing.T) {
	chat := &fakeChatAPI{messages: []models.Message{{MessageID: "m1", SenderID: "u2"}}}
	c := NewChatController(chat, &fakeGuard{}, &fakeBroadcaster{})

	req := httptest.NewRequest("GET", "/api/chat/messages?matchId=m1&userId=u1", nil)
	rr := httptest.NewRecorder()
	c.HandleGetMessages(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got []models.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)

	// Read receipts run fire-and-forget after the response.
	require.Eventually(t, func() bool { return chat.readCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHandleSendMessageRejectsWhitespace(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	c := NewChatController(&fakeChatAPI{}, &fakeGuard{}, broadcaster)

	body := bytes.NewBufferString(`{"matchId":"m1","senderId":"u1","content":"   "}`)
	req := httptest.NewRequest("POST", "/api/chat/message", body)
	rr := httptest.NewRecorder()
	c.HandleSendMessage(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Zero(t, broadcaster.count())
}

func TestHandleSendMessageBroadcasts(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	c := NewChatController(&fakeChatAPI{}, &fakeGuard{}, broadcaster)

	body := bytes.NewBufferString(`{"matchId":"m1","senderId":"u1","content":"Hola"}`)
	req := httptest.NewRequest("POST", "/api/chat/message", body)
	rr := httptest.NewRecorder()
	c.HandleSendMessage(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, broadcaster.count())

	var got models.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "generated-id", got.MessageID)
	require.False(t, got.Read)
}

func TestHandleSendMessageGuardForbidden(t *testing.T) {
	broadcaster := &fakeBroadcaster{}
	c := NewChatController(&fakeChatAPI{}, &fakeGuard{err: services.ErrNotParticipant}, broadcaster)

	body := bytes.NewBufferString(`{"matchId":"m1","senderId":"u9","content":"Hola"}`)
	req := httptest.NewRequest("POST", "/api/chat/message", body)
	rr := httptest.NewRecorder()
	c.HandleSendMessage(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Zero(t, broadcaster.count())
}

func TestHandleMarkMessagesAsRead(t *testing.T) {
	chat := &fakeChatAPI{}
	c := NewChatController(chat, &fakeGuard{}, &fakeBroadcaster{})

	body := bytes.NewBufferString(`{"matchId":"m1","userId":"u1"}`)
	req := httptest.NewRequest("POST", "/api/chat/messages/mark-as-read", body)
	rr := httptest.NewRecorder()
	c.HandleMarkMessagesAsRead(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, chat.readCount())
}
