// internal/lobby/registry_test.go
package lobby

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *GroupRegistry {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewGroupRegistry(log, DefaultMaxSize)
}

func TestCreateGroupSeatsOwner(t *testing.T) {
	r := newTestRegistry(t)

	lob, owner, err := r.CreateGroup("Alice")
	require.NoError(t, err)
	require.NotNil(t, lob)
	require.NotNil(t, owner)

	assert.Equal(t, "Alice", owner.Name)
	assert.False(t, owner.Ready)
	assert.Equal(t, 1, lob.Len())

	got, ok := r.GetGroup(lob.ID)
	require.True(t, ok)
	assert.Same(t, lob, got)

	current, ok := lob.Owner()
	require.True(t, ok)
	assert.Equal(t, owner.ID, current.ID)
}

func TestGetGroupUnknownID(t *testing.T) {
	r := newTestRegistry(t)
	_, ok := r.GetGroup(uuid.New())
	assert.False(t, ok)
}

func TestRemoveGroupIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	lob, _, err := r.CreateGroup("Alice")
	require.NoError(t, err)

	r.RemoveGroup(lob.ID)
	_, ok := r.GetGroup(lob.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	r.RemoveGroup(lob.ID) // no-op
	assert.Equal(t, 0, r.Len())
}

func TestSummaries(t *testing.T) {
	r := newTestRegistry(t)
	lob, _, err := r.CreateGroup("Alice")
	require.NoError(t, err)
	for i := 0; i < DefaultMaxSize-1; i++ {
		require.NotNil(t, lob.AddPlayer("p"))
	}

	sums := r.Summaries()
	require.Len(t, sums, 1)
	assert.Equal(t, lob.ID.String(), sums[0].GroupID)
	assert.Equal(t, DefaultMaxSize, sums[0].Players)
	assert.True(t, sums[0].Full)
}
