// internal/models/player.go
package models

import "github.com/google/uuid"

// Player is one member of a group. IDs are generated server-side; clients
// only ever echo them back as opaque strings.
type Player struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Ready bool      `json:"ready"`
}

// LobbyState is the wire-facing view of a group's membership, sent as the
// LOBBY_UPDATE payload. Players are listed in join order.
type LobbyState struct {
	OwnerID uuid.UUID `json:"ownerId"`
	Players []Player  `json:"players"`
}
