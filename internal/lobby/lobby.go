// internal/lobby/lobby.go

// Package lobby holds the in-memory group state: per-group membership,
// ready flags and ownership, plus the registry mapping group IDs to lobbies.
//
// Nothing in this package locks. The coordination engine serializes every
// event, so all methods here assume the engine's lock is held, the same way
// the *Unsafe methods elsewhere assume their caller's mutex.
package lobby

import (
	"github.com/google/uuid"

	"github.com/lobbyd/lobbyd/internal/models"
)

// DefaultMaxSize is the group capacity used when no override is configured.
const DefaultMaxSize = 4

// Lobby is one group of players waiting to start a game.
type Lobby struct {
	ID      uuid.UUID
	maxSize int

	players   map[uuid.UUID]*models.Player
	joinOrder []uuid.UUID // join order decides ownership succession
	ownerID   uuid.UUID   // uuid.Nil while the lobby is empty
}

// New creates an empty lobby. maxSize values below 1 fall back to the default.
func New(id uuid.UUID, maxSize int) *Lobby {
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}
	return &Lobby{
		ID:      id,
		maxSize: maxSize,
		players: make(map[uuid.UUID]*models.Player),
	}
}

// AddPlayer creates a player with a fresh ID and ready=false. Returns nil if
// the lobby is already at capacity. The first player added becomes owner.
func (l *Lobby) AddPlayer(name string) *models.Player {
	if l.IsFull() {
		return nil
	}
	p := &models.Player{
		ID:   uuid.New(),
		Name: name,
	}
	l.players[p.ID] = p
	l.joinOrder = append(l.joinOrder, p.ID)
	if l.ownerID == uuid.Nil {
		l.ownerID = p.ID
	}
	return p
}

// RemovePlayer deletes the player if present; unknown IDs are a no-op. When
// the owner leaves, ownership passes to the earliest-joined remaining player,
// or to nobody if the lobby is now empty.
func (l *Lobby) RemovePlayer(id uuid.UUID) {
	if _, ok := l.players[id]; !ok {
		return
	}
	delete(l.players, id)
	for i, pid := range l.joinOrder {
		if pid == id {
			l.joinOrder = append(l.joinOrder[:i], l.joinOrder[i+1:]...)
			break
		}
	}
	if l.ownerID == id {
		if len(l.joinOrder) > 0 {
			l.ownerID = l.joinOrder[0]
		} else {
			l.ownerID = uuid.Nil
		}
	}
}

// SetReady updates the player's ready flag. Unknown IDs are silently ignored;
// membership is validated upstream by the coordination engine.
func (l *Lobby) SetReady(id uuid.UUID, ready bool) {
	if p, ok := l.players[id]; ok {
		p.Ready = ready
	}
}

// AllReady reports whether every player is ready. An empty lobby is never
// all-ready.
func (l *Lobby) AllReady() bool {
	if len(l.players) == 0 {
		return false
	}
	for _, p := range l.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// IsFull reports whether the lobby is at capacity.
func (l *Lobby) IsFull() bool {
	return len(l.players) >= l.maxSize
}

// Len returns the current player count.
func (l *Lobby) Len() int {
	return len(l.players)
}

// Owner returns a copy of the current owner, if any.
func (l *Lobby) Owner() (models.Player, bool) {
	p, ok := l.players[l.ownerID]
	if !ok {
		return models.Player{}, false
	}
	return *p, true
}

// Snapshot returns the owner ID and a copy of the players in join order.
// Callers get their own slice; mutating it does not touch lobby state.
func (l *Lobby) Snapshot() models.LobbyState {
	state := models.LobbyState{
		OwnerID: l.ownerID,
		Players: make([]models.Player, 0, len(l.joinOrder)),
	}
	for _, id := range l.joinOrder {
		if p, ok := l.players[id]; ok {
			state.Players = append(state.Players, *p)
		}
	}
	return state
}
