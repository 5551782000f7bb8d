// internal/lobby/registry.go
package lobby

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lobbyd/lobbyd/internal/models"
)

// GroupRegistry owns every live lobby, keyed by group ID. Like Lobby, it is
// not internally locked; the coordination engine serializes access.
type GroupRegistry struct {
	log     *logrus.Logger
	maxSize int
	groups  map[uuid.UUID]*Lobby
}

// GroupSummary is a read-only listing entry for one group.
type GroupSummary struct {
	GroupID string `json:"groupId"`
	Players int    `json:"players"`
	Full    bool   `json:"full"`
}

// NewGroupRegistry returns an empty registry whose lobbies cap out at maxSize.
func NewGroupRegistry(log *logrus.Logger, maxSize int) *GroupRegistry {
	return &GroupRegistry{
		log:     log,
		maxSize: maxSize,
		groups:  make(map[uuid.UUID]*Lobby),
	}
}

// CreateGroup allocates a group ID, builds a lobby and seats ownerName as its
// first player. A fresh lobby can never be full, so a nil player here is an
// internal invariant violation; the half-made group is discarded.
func (r *GroupRegistry) CreateGroup(ownerName string) (*Lobby, *models.Player, error) {
	id := uuid.New()
	lob := New(id, r.maxSize)
	r.groups[id] = lob

	owner := lob.AddPlayer(ownerName)
	if owner == nil {
		delete(r.groups, id)
		return nil, nil, fmt.Errorf("new lobby %s rejected its first player", id)
	}
	r.log.WithFields(logrus.Fields{
		"group": id,
		"owner": owner.ID,
	}).Info("group created")
	return lob, owner, nil
}

// GetGroup retrieves a lobby by ID.
func (r *GroupRegistry) GetGroup(id uuid.UUID) (*Lobby, bool) {
	lob, ok := r.groups[id]
	return lob, ok
}

// RemoveGroup deletes the group if present; unknown IDs are a no-op.
func (r *GroupRegistry) RemoveGroup(id uuid.UUID) {
	if _, ok := r.groups[id]; ok {
		delete(r.groups, id)
		r.log.WithField("group", id).Info("group removed")
	}
}

// Len returns the number of live groups.
func (r *GroupRegistry) Len() int {
	return len(r.groups)
}

// Summaries returns a listing of all live groups for the HTTP debug surface.
func (r *GroupRegistry) Summaries() []GroupSummary {
	out := make([]GroupSummary, 0, len(r.groups))
	for id, lob := range r.groups {
		out = append(out, GroupSummary{
			GroupID: id.String(),
			Players: lob.Len(),
			Full:    lob.IsFull(),
		})
	}
	return out
}
