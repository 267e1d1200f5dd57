package chatsession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTypingIndicatorStartsIdle(t *testing.T) {
	clock := newFakeClock()
	indicator := NewTypingIndicator(clock, nil)

	require.False(t, indicator.Active())
}

func TestTypingIndicatorDecaysAfterTwoSeconds(t *testing.T) {
	clock := newFakeClock()
	indicator := NewTypingIndicator(clock, nil)

	indicator.Signal()
	require.True(t, indicator.Active())

	clock.Advance(1900 * time.Millisecond)
	require.True(t, indicator.Active())

	clock.Advance(100 * time.Millisecond)
	require.False(t, indicator.Active())
}

func TestTypingIndicatorResetsInsteadOfStacking(t *testing.T) {
	clock := newFakeClock()
	indicator := NewTypingIndicator(clock, nil)

	indicator.Signal()
	clock.Advance(1500 * time.Millisecond)

	// A second signal restarts the 2s window from now.
	indicator.Signal()
	clock.Advance(1500 * time.Millisecond)
	require.True(t, indicator.Active())

	clock.Advance(500 * time.Millisecond)
	require.False(t, indicator.Active())
}

func TestTypingIndicatorFiresTransitionsOnce(t *testing.T) {
	clock := newFakeClock()
	var transitions []bool
	indicator := NewTypingIndicator(clock, func(active bool) {
		transitions = append(transitions, active)
	})

	indicator.Signal()
	indicator.Signal() // still typing, no extra transition
	clock.Advance(2 * time.Second)

	require.Equal(t, []bool{true, false}, transitions)
}

func TestTypingIndicatorStop(t *testing.T) {
	clock := newFakeClock()
	indicator := NewTypingIndicator(clock, nil)

	indicator.Signal()
	indicator.Stop()

	require.False(t, indicator.Active())

	// A stale timer firing after Stop must not resurrect the indicator.
	clock.Advance(2 * time.Second)
	require.False(t, indicator.Active())
}
