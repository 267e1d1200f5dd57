package chatsession

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pawlink_server/models"

	"github.com/stretchr/testify/require"
)

type fakeGuard struct {
	match models.MatchWithPets
	err   error
}

func (g *fakeGuard) AuthorizeChat(_ context.Context, matchID, userID string) (models.MatchWithPets, error) {
	if g.err != nil {
		return models.MatchWithPets{}, g.err
	}
	return g.match, nil
}

type fakeStore struct {
	mu         sync.Mutex
	history    []models.Message
	sendResult models.Message
	sendErr    error

	fetchCalls int
	sendCalls  int
	readIDs    []string
}

func (s *fakeStore) GetMessagesByMatchID(_ context.Context, matchID string, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	out := make([]models.Message, len(s.history))
	copy(out, s.history)
	return out, nil
}

func (s *fakeStore) SendMessage(_ context.Context, matchID, senderID, content string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendCalls++
	if s.sendErr != nil {
		return models.Message{}, s.sendErr
	}
	return s.sendResult, nil
}

func (s *fakeStore) MarkMessageRead(_ context.Context, msg models.Message, readerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readIDs = append(s.readIDs, msg.MessageID)
	return nil
}

func (s *fakeStore) readMessageIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.readIDs))
	copy(out, s.readIDs)
	return out
}

func (s *fakeStore) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendCalls
}

func (s *fakeStore) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls
}

type fakeRelay struct {
	mu        sync.Mutex
	onMessage func(models.Message)
	onTyping  func(models.TypingSignal)
	cancelled bool
	err       error
}

type fakeSub struct{ relay *fakeRelay }

func (s *fakeSub) Cancel() {
	s.relay.mu.Lock()
	defer s.relay.mu.Unlock()
	s.relay.cancelled = true
}

func (r *fakeRelay) Subscribe(matchID string, onMessage func(models.Message), onTyping func(models.TypingSignal)) (Subscription, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onMessage = onMessage
	r.onTyping = onTyping
	return &fakeSub{relay: r}, nil
}

func (r *fakeRelay) deliverMessage(msg models.Message) {
	r.mu.Lock()
	f := r.onMessage
	r.mu.Unlock()
	f(msg)
}

func (r *fakeRelay) deliverTyping(sig models.TypingSignal) {
	r.mu.Lock()
	f := r.onTyping
	r.mu.Unlock()
	f(sig)
}

func (r *fakeRelay) isCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

func matchedPair() models.MatchWithPets {
	return models.MatchWithPets{
		Match: models.Match{
			MatchID:     "m1",
			Owner1ID:    "u1",
			Owner2ID:    "u2",
			MatchStatus: models.MatchStatusMatched,
		},
	}
}

type sessionFixture struct {
	session *Session
	guard   *fakeGuard
	store   *fakeStore
	relay   *fakeRelay
	clock   *fakeClock
}

func newFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		guard: &fakeGuard{match: matchedPair()},
		store: &fakeStore{},
		relay: &fakeRelay{},
		clock: newFakeClock(),
	}
	f.session = NewSession(Config{
		MatchID: "m1",
		UserID:  "u1",
		Guard:   f.guard,
		Store:   f.store,
		Relay:   f.relay,
		Clock:   f.clock,
	})
	return f
}

func TestLoadGuardFailureTerminatesWithoutFetch(t *testing.T) {
	f := newFixture(t)
	f.guard.err = errors.New("match is not in matched state")

	err := f.session.Load(context.Background())

	require.Error(t, err)
	require.Equal(t, StateClosed, f.session.State())
	require.Zero(t, f.store.fetchCount(), "no message fetch may happen when the guard fails")
}

func TestLoadReachesReadyAndMarksPeerMessagesRead(t *testing.T) {
	f := newFixture(t)
	f.store.history = []models.Message{
		{MessageID: "own", MatchID: "m1", SenderID: "u1", CreatedAt: "2026-01-01T10:00:00.000000000Z", Read: false},
		{MessageID: "peer", MatchID: "m1", SenderID: "u2", CreatedAt: "2026-01-01T10:00:01.000000000Z", Read: false},
		{MessageID: "seen", MatchID: "m1", SenderID: "u2", CreatedAt: "2026-01-01T10:00:02.000000000Z", Read: true},
	}

	require.NoError(t, f.session.Load(context.Background()))
	require.Equal(t, StateReady, f.session.State())
	require.Len(t, f.session.Messages(), 3)

	// Only the unread peer message gets a receipt: not our own, not the
	// already-read one.
	require.Eventually(t, func() bool {
		ids := f.store.readMessageIDs()
		return len(ids) == 1 && ids[0] == "peer"
	}, time.Second, 5*time.Millisecond)
}

func TestSendWhitespaceOnlyIsNoOp(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))

	msg, err := f.session.Send(context.Background(), "   \t\n")

	require.NoError(t, err)
	require.Empty(t, msg.MessageID)
	require.Zero(t, f.store.sentCount())
	require.Empty(t, f.session.Messages())
	require.Equal(t, StateReady, f.session.State())
}

func TestSendBeforeLoadFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.Send(context.Background(), "hola")

	require.ErrorIs(t, err, ErrSessionNotReady)
}

func TestSendOptimisticAppendThenRelayDuplicate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))

	stored := models.Message{MessageID: "m-hola", MatchID: "m1", SenderID: "u1", Content: "Hola", CreatedAt: "2026-01-01T10:00:00.000000000Z"}
	f.store.sendResult = stored

	sent, err := f.session.Send(context.Background(), "Hola")
	require.NoError(t, err)
	require.Equal(t, "m-hola", sent.MessageID)
	require.Len(t, f.session.Messages(), 1)

	// The relay echoes the same insert back to the sender.
	f.relay.deliverMessage(stored)
	require.Len(t, f.session.Messages(), 1, "duplicate delivery must not double-append")
	require.Equal(t, StateReady, f.session.State())
}

func TestSendFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))
	f.store.sendErr = errors.New("insert failed")

	_, err := f.session.Send(context.Background(), "Hola")

	require.Error(t, err)
	require.Empty(t, f.session.Messages())
	require.Equal(t, StateReady, f.session.State())
}

func TestRelayDeliveryOutOfOrderRendersByCreationTime(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))

	f.relay.deliverMessage(models.Message{MessageID: "b", SenderID: "u2", CreatedAt: "2026-01-01T10:00:05.000000000Z"})
	f.relay.deliverMessage(models.Message{MessageID: "a", SenderID: "u2", CreatedAt: "2026-01-01T10:00:00.000000000Z"})

	msgs := f.session.Messages()
	require.Equal(t, "a", msgs[0].MessageID)
	require.Equal(t, "b", msgs[1].MessageID)
}

func TestRelayPeerMessageGetsReadReceipt(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))

	f.relay.deliverMessage(models.Message{MessageID: "peer", SenderID: "u2", CreatedAt: "2026-01-01T10:00:00.000000000Z"})

	require.Eventually(t, func() bool {
		ids := f.store.readMessageIDs()
		return len(ids) == 1 && ids[0] == "peer"
	}, time.Second, 5*time.Millisecond)
}

func TestPeerTypingDecays(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))

	f.relay.deliverTyping(models.TypingSignal{MatchID: "m1", SenderID: "u2"})
	require.True(t, f.session.PeerTyping())

	f.clock.Advance(2 * time.Second)
	require.False(t, f.session.PeerTyping())
}

func TestOwnTypingEchoIsIgnored(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))

	f.relay.deliverTyping(models.TypingSignal{MatchID: "m1", SenderID: "u1"})

	require.False(t, f.session.PeerTyping())
}

func TestCloseCancelsSubscriptionAndIgnoresEvents(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))

	f.session.Close()

	require.Equal(t, StateClosed, f.session.State())
	require.True(t, f.relay.isCancelled())

	f.relay.deliverMessage(models.Message{MessageID: "late", SenderID: "u2", CreatedAt: "2026-01-01T10:00:00.000000000Z"})
	require.Empty(t, f.session.Messages())

	_, err := f.session.Send(context.Background(), "Hola")
	require.ErrorIs(t, err, ErrSessionClosed)

	// Close is idempotent.
	f.session.Close()
}

func TestResyncMergesMissedMessages(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.Load(context.Background()))

	f.relay.deliverMessage(models.Message{MessageID: "live", SenderID: "u1", CreatedAt: "2026-01-01T10:00:01.000000000Z"})

	// A message missed while disconnected shows up in the next history fetch.
	f.store.mu.Lock()
	f.store.history = []models.Message{
		{MessageID: "missed", SenderID: "u2", CreatedAt: "2026-01-01T10:00:00.000000000Z", Read: true},
		{MessageID: "live", SenderID: "u1", CreatedAt: "2026-01-01T10:00:01.000000000Z"},
	}
	f.store.mu.Unlock()

	require.NoError(t, f.session.Resync(context.Background()))

	msgs := f.session.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "missed", msgs[0].MessageID)
	require.Equal(t, "live", msgs[1].MessageID)
}
