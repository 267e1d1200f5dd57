package chatsession

import (
	"sync"
	"time"
)

// TypingDecay is how long the typing indicator stays active after the last
// signal.
const TypingDecay = 2 * time.Second

// TypingIndicator is a small state machine over {Idle, Typing(expiresAt)}.
// Each signal resets the decay deadline rather than stacking timers, and the
// whole thing is lossy on purpose: a dropped broadcast just means the
// indicator does not show.
type TypingIndicator struct {
	mu        sync.Mutex
	clock     Clock
	expiresAt time.Time
	timer     Timer
	onChange  func(active bool)
}

// NewTypingIndicator creates an indicator in the Idle state. onChange may be
// nil; when set it fires on Idle<->Typing transitions.
func NewTypingIndicator(clock Clock, onChange func(active bool)) *TypingIndicator {
	if clock == nil {
		clock = RealClock()
	}
	return &TypingIndicator{clock: clock, onChange: onChange}
}

// Signal records that the counterpart is composing, (re)starting the decay
// window from now.
func (t *TypingIndicator) Signal() {
	t.mu.Lock()
	now := t.clock.Now()
	wasActive := now.Before(t.expiresAt)
	t.expiresAt = now.Add(TypingDecay)

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = t.clock.AfterFunc(TypingDecay, t.expire)
	t.mu.Unlock()

	if !wasActive && t.onChange != nil {
		t.onChange(true)
	}
}

// Active reports whether the indicator should currently show
func (t *TypingIndicator) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clock.Now().Before(t.expiresAt)
}

// Stop clears the indicator and cancels its pending timer. Used on session
// teardown.
func (t *TypingIndicator) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.expiresAt = time.Time{}
	t.mu.Unlock()
}

// expire runs when the decay timer fires. A signal received after the timer
// was scheduled pushes expiresAt forward, in which case this fire is stale
// and ignored.
func (t *TypingIndicator) expire() {
	t.mu.Lock()
	if t.clock.Now().Before(t.expiresAt) {
		t.mu.Unlock()
		return
	}
	t.expiresAt = time.Time{}
	t.timer = nil
	t.mu.Unlock()

	if t.onChange != nil {
		t.onChange(false)
	}
}
