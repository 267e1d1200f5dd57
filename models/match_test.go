package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		status1  string
		status2  string
		expected string
	}{
		{"both pending", SideStatusPending, SideStatusPending, MatchStatusPending},
		{"one accepted", SideStatusAccepted, SideStatusPending, MatchStatusPending},
		{"both accepted", SideStatusAccepted, SideStatusAccepted, MatchStatusMatched},
		{"one rejected", SideStatusAccepted, SideStatusRejected, MatchStatusRejected},
		{"rejection wins over acceptance", SideStatusRejected, SideStatusAccepted, MatchStatusRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Match{Status1: tc.status1, Status2: tc.status2}
			require.Equal(t, tc.expected, m.DeriveStatus())
		})
	}
}

func TestHasParticipant(t *testing.T) {
	m := Match{Owner1ID: "u1", Owner2ID: "u2"}

	require.True(t, m.HasParticipant("u1"))
	require.True(t, m.HasParticipant("u2"))
	require.False(t, m.HasParticipant("u3"))
}

func TestHasPets(t *testing.T) {
	m := Match{Pet1ID: "p1", Pet2ID: "p2"}

	require.True(t, m.HasPets("p1", "p2"))
	require.True(t, m.HasPets("p2", "p1"))
	require.False(t, m.HasPets("p1", "p3"))
}
