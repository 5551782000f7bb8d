// internal/lobby/lobby_test.go
package lobby

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLobby(t *testing.T) *Lobby {
	t.Helper()
	return New(uuid.New(), DefaultMaxSize)
}

func TestAddPlayerAssignsIDAndOwner(t *testing.T) {
	l := newTestLobby(t)

	alice := l.AddPlayer("Alice")
	require.NotNil(t, alice)
	assert.NotEqual(t, uuid.Nil, alice.ID)
	assert.Equal(t, "Alice", alice.Name)
	assert.False(t, alice.Ready)

	owner, ok := l.Owner()
	require.True(t, ok)
	assert.Equal(t, alice.ID, owner.ID, "first player added becomes owner")

	bob := l.AddPlayer("Bob")
	require.NotNil(t, bob)
	owner, ok = l.Owner()
	require.True(t, ok)
	assert.Equal(t, alice.ID, owner.ID, "owner unchanged by later joins")
}

func TestAddPlayerCapacity(t *testing.T) {
	l := newTestLobby(t)

	for i := 0; i < DefaultMaxSize; i++ {
		require.NotNil(t, l.AddPlayer("player"))
	}
	assert.True(t, l.IsFull())

	extra := l.AddPlayer("late")
	assert.Nil(t, extra, "add beyond capacity must be rejected")
	assert.Equal(t, DefaultMaxSize, l.Len(), "rejected add must not change state")
}

func TestRemovePlayerIdempotent(t *testing.T) {
	l := newTestLobby(t)
	alice := l.AddPlayer("Alice")

	l.RemovePlayer(uuid.New()) // unknown id
	assert.Equal(t, 1, l.Len())

	l.RemovePlayer(alice.ID)
	assert.Equal(t, 0, l.Len())
	l.RemovePlayer(alice.ID) // second removal is a no-op
	assert.Equal(t, 0, l.Len())

	_, ok := l.Owner()
	assert.False(t, ok, "empty lobby has no owner")
}

func TestOwnerSuccessionFollowsJoinOrder(t *testing.T) {
	l := newTestLobby(t)
	a := l.AddPlayer("A")
	b := l.AddPlayer("B")
	c := l.AddPlayer("C")

	l.RemovePlayer(a.ID)
	owner, ok := l.Owner()
	require.True(t, ok)
	assert.Equal(t, b.ID, owner.ID)

	l.RemovePlayer(b.ID)
	owner, ok = l.Owner()
	require.True(t, ok)
	assert.Equal(t, c.ID, owner.ID)

	l.RemovePlayer(c.ID)
	_, ok = l.Owner()
	assert.False(t, ok)
}

func TestOwnerInvariantUnderChurn(t *testing.T) {
	l := newTestLobby(t)

	a := l.AddPlayer("A")
	b := l.AddPlayer("B")
	l.RemovePlayer(b.ID)
	c := l.AddPlayer("C")
	l.RemovePlayer(a.ID)
	l.AddPlayer("D")

	owner, ok := l.Owner()
	require.True(t, ok)
	assert.Equal(t, c.ID, owner.ID, "earliest remaining joiner owns the lobby")

	// Owner must always be a present member.
	state := l.Snapshot()
	found := false
	for _, p := range state.Players {
		if p.ID == state.OwnerID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSetReadyUnknownIDIsNoOp(t *testing.T) {
	l := newTestLobby(t)
	alice := l.AddPlayer("Alice")

	l.SetReady(uuid.New(), true)
	state := l.Snapshot()
	require.Len(t, state.Players, 1)
	assert.False(t, state.Players[0].Ready)

	l.SetReady(alice.ID, true)
	assert.True(t, l.Snapshot().Players[0].Ready)
}

func TestAllReady(t *testing.T) {
	l := newTestLobby(t)
	assert.False(t, l.AllReady(), "empty lobby is never all-ready")

	alice := l.AddPlayer("Alice")
	bob := l.AddPlayer("Bob")
	assert.False(t, l.AllReady())

	l.SetReady(alice.ID, true)
	assert.False(t, l.AllReady())

	l.SetReady(bob.ID, true)
	assert.True(t, l.AllReady())

	l.SetReady(alice.ID, false)
	assert.False(t, l.AllReady())
}

func TestSnapshotIsCopyInJoinOrder(t *testing.T) {
	l := newTestLobby(t)
	a := l.AddPlayer("A")
	b := l.AddPlayer("B")
	c := l.AddPlayer("C")

	state := l.Snapshot()
	require.Len(t, state.Players, 3)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID},
		[]uuid.UUID{state.Players[0].ID, state.Players[1].ID, state.Players[2].ID})
	assert.Equal(t, a.ID, state.OwnerID)

	// Mutating the snapshot must not touch lobby state.
	state.Players[0].Ready = true
	state.Players[1].Name = "mutated"
	fresh := l.Snapshot()
	assert.False(t, fresh.Players[0].Ready)
	assert.Equal(t, "B", fresh.Players[1].Name)
}

func TestSnapshotReflectsMutationsImmediately(t *testing.T) {
	l := newTestLobby(t)
	a := l.AddPlayer("A")
	b := l.AddPlayer("B")

	l.SetReady(b.ID, true)
	state := l.Snapshot()
	assert.True(t, state.Players[1].Ready)

	l.RemovePlayer(a.ID)
	state = l.Snapshot()
	require.Len(t, state.Players, 1)
	assert.Equal(t, b.ID, state.OwnerID)
}
