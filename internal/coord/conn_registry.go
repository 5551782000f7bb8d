// internal/coord/conn_registry.go
package coord

import (
	"github.com/google/uuid"

	"github.com/lobbyd/lobbyd/internal/protocol"
)

// Sender delivers one server message to a single connection. Implementations
// must never block: a slow peer gets its messages dropped, not the engine
// stalled.
type Sender interface {
	Send(msg protocol.ServerMessage)
}

// Association is the live binding of a connection to a (group, player) pair.
// It holds plain IDs, not pointers; the group may already be gone by the time
// the association is used, and callers tolerate that.
type Association struct {
	GroupID  uuid.UUID
	PlayerID uuid.UUID
}

// ConnectionRegistry answers "who is this socket". One association per
// connection at most; like the lobby types, access is serialized by the
// engine lock.
type ConnectionRegistry struct {
	conns map[Sender]Association
}

// NewConnectionRegistry returns an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{conns: make(map[Sender]Association)}
}

// Associate binds sender to a (group, player) pair, replacing any prior
// binding.
func (r *ConnectionRegistry) Associate(sender Sender, groupID, playerID uuid.UUID) {
	r.conns[sender] = Association{GroupID: groupID, PlayerID: playerID}
}

// Lookup returns the sender's association, if it has one.
func (r *ConnectionRegistry) Lookup(sender Sender) (Association, bool) {
	assoc, ok := r.conns[sender]
	return assoc, ok
}

// Dissociate removes the sender's binding; unknown senders are a no-op.
func (r *ConnectionRegistry) Dissociate(sender Sender) {
	delete(r.conns, sender)
}

// GroupPeers returns every sender currently bound to groupID.
func (r *ConnectionRegistry) GroupPeers(groupID uuid.UUID) []Sender {
	var peers []Sender
	for sender, assoc := range r.conns {
		if assoc.GroupID == groupID {
			peers = append(peers, sender)
		}
	}
	return peers
}
