// Package chatsession implements the client-side core of a chat screen: it
// loads a match and its history, follows the realtime channel, and keeps the
// local message list consistent under out-of-order and duplicate delivery.
// All I/O edges are injected, so the whole lifecycle runs in tests without a
// network or a wall clock.
package chatsession

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"pawlink_server/models"
)

// State is the lifecycle state of a chat session
type State int

const (
	StateLoading State = iota
	StateReady
	StateSending
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

var (
	// ErrSessionNotReady is returned when an operation needs a loaded session
	ErrSessionNotReady = errors.New("session is not ready")
	// ErrSessionClosed is returned after Close
	ErrSessionClosed = errors.New("session is closed")
)

// Guard verifies chat access for a match (see MatchService.AuthorizeChat)
type Guard interface {
	AuthorizeChat(ctx context.Context, matchID, userID string) (models.MatchWithPets, error)
}

// MessageStore is the slice of ChatService a session needs
type MessageStore interface {
	GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error)
	SendMessage(ctx context.Context, matchID, senderID, content string) (models.Message, error)
	MarkMessageRead(ctx context.Context, msg models.Message, readerID string) error
}

// Subscription is a cancellable realtime subscription
type Subscription interface {
	Cancel()
}

// Relay delivers realtime events for one match. Delivery is best-effort:
// duplicates and reordering are tolerated by the session, missed events are
// recovered by Resync.
type Relay interface {
	Subscribe(matchID string, onMessage func(models.Message), onTyping func(models.TypingSignal)) (Subscription, error)
}

// Config carries the injected dependencies for a session. Clock and OnUpdate
// are optional.
type Config struct {
	MatchID string
	UserID  string
	Guard   Guard
	Store   MessageStore
	Relay   Relay
	Clock   Clock
	// OnUpdate is invoked after any observable state change (new message,
	// state transition, typing flip). Called without internal locks held.
	OnUpdate func()
}

// Session is the state holder for one open chat screen
type Session struct {
	cfg Config

	mu       sync.Mutex
	state    State
	match    models.MatchWithPets
	messages []models.Message
	sub      Subscription

	typing *TypingIndicator
}

// NewSession creates a session in the Loading state. Call Load to start it.
func NewSession(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	s := &Session{cfg: cfg, state: StateLoading}
	s.typing = NewTypingIndicator(cfg.Clock, func(bool) { s.notify() })
	return s
}

// Load runs the access guard, opens the realtime subscription and fetches
// history. A guard failure terminates the session before any message is
// fetched. Subscribing before the history fetch closes the gap between the
// two; the merge drops whatever arrives both ways.
func (s *Session) Load(ctx context.Context) error {
	match, err := s.cfg.Guard.AuthorizeChat(ctx, s.cfg.MatchID, s.cfg.UserID)
	if err != nil {
		s.terminate()
		return err
	}

	sub, err := s.cfg.Relay.Subscribe(s.cfg.MatchID, s.handleMessage, s.handleTyping)
	if err != nil {
		s.terminate()
		return err
	}

	history, err := s.cfg.Store.GetMessagesByMatchID(ctx, s.cfg.MatchID, 100)
	if err != nil {
		sub.Cancel()
		s.terminate()
		return err
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		sub.Cancel()
		return ErrSessionClosed
	}
	s.match = match
	s.sub = sub
	s.messages = MergeAll(s.messages, history)
	s.state = StateReady
	unread := s.unreadPeerMessagesLocked()
	s.mu.Unlock()

	s.markRead(unread)
	s.notify()
	return nil
}

// Send validates, persists and optimistically appends an outgoing message.
// A whitespace-only draft is a no-op: no store call, no state change. On
// failure the caller keeps the draft; nothing was appended.
func (s *Session) Send(ctx context.Context, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, nil
	}

	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return models.Message{}, ErrSessionClosed
	case StateLoading:
		s.mu.Unlock()
		return models.Message{}, ErrSessionNotReady
	}
	s.state = StateSending
	s.mu.Unlock()
	s.notify()

	msg, err := s.cfg.Store.SendMessage(ctx, s.cfg.MatchID, s.cfg.UserID, text)

	s.mu.Lock()
	if s.state == StateSending {
		s.state = StateReady
	}
	if err == nil && s.state != StateClosed {
		s.messages, _ = MergeIncoming(s.messages, msg)
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// Resync re-fetches history and merges it into local state. This is the
// recovery path after the embedding app re-established the realtime
// connection; the idempotent merge makes it safe to call at any time.
func (s *Session) Resync(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	history, err := s.cfg.Store.GetMessagesByMatchID(ctx, s.cfg.MatchID, 100)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.messages = MergeAll(s.messages, history)
	unread := s.unreadPeerMessagesLocked()
	s.mu.Unlock()

	s.markRead(unread)
	s.notify()
	return nil
}

// Close tears the session down: subscription cancelled, typing timer
// stopped, further events ignored. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
	s.typing.Stop()
	s.notify()
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Match returns the guarded match with my/other pet assignment
func (s *Session) Match() models.MatchWithPets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match
}

// Messages returns a copy of the message list in rendering order
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// PeerTyping reports whether the counterpart's typing indicator should show
func (s *Session) PeerTyping() bool {
	return s.typing.Active()
}

// handleMessage is the relay callback for message inserts
func (s *Session) handleMessage(msg models.Message) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	merged, added := MergeIncoming(s.messages, msg)
	s.messages = merged
	s.mu.Unlock()

	if !added {
		return
	}
	if msg.SenderID != s.cfg.UserID {
		s.markRead([]models.Message{msg})
	}
	s.notify()
}

// handleTyping is the relay callback for typing broadcasts. Own signals are
// echoed back by the room fan-out and ignored here.
func (s *Session) handleTyping(sig models.TypingSignal) {
	if sig.SenderID == s.cfg.UserID {
		return
	}
	s.mu.Lock()
	closed := s.state == StateClosed
	s.mu.Unlock()
	if closed {
		return
	}
	s.typing.Signal()
}

// markRead issues fire-and-forget read receipts. Failures are logged and
// dropped: read state is best-effort, not correctness-critical.
func (s *Session) markRead(msgs []models.Message) {
	if len(msgs) == 0 {
		return
	}
	go func() {
		for _, msg := range msgs {
			if err := s.cfg.Store.MarkMessageRead(context.Background(), msg, s.cfg.UserID); err != nil {
				log.Printf("⚠️ Failed to mark message %s as read: %v", msg.MessageID, err)
			}
		}
	}()
}

// unreadPeerMessagesLocked collects messages needing a read receipt.
// Caller holds s.mu.
func (s *Session) unreadPeerMessagesLocked() []models.Message {
	var unread []models.Message
	for _, msg := range s.messages {
		if !msg.Read && msg.SenderID != s.cfg.UserID {
			unread = append(unread, msg)
		}
	}
	return unread
}

func (s *Session) terminate() {
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	s.typing.Stop()
	s.notify()
}

func (s *Session) notify() {
	if s.cfg.OnUpdate != nil {
		s.cfg.OnUpdate()
	}
}
