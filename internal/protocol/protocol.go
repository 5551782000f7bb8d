// internal/protocol/protocol.go

// Package protocol defines the JSON message envelope exchanged with clients
// and the typed payloads behind each event tag. Payloads are decoded once at
// the boundary; unknown tags are a protocol error, not a silent skip.
package protocol

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/lobbyd/lobbyd/internal/models"
)

// EventType tags both client->server and server->client messages.
type EventType string

// Client -> server events.
const (
	EventCreateGroup EventType = "CREATE_GROUP"
	EventJoinGroup   EventType = "JOIN_GROUP"
	EventSetReady    EventType = "PLAYER_SET_READY"
	EventStartGame   EventType = "START_GAME"
)

// Server -> client events.
const (
	EventGroupCreated EventType = "GROUP_CREATED"
	EventJoined       EventType = "JOINED"
	EventPlayerJoined EventType = "PLAYER_JOINED"
	EventLobbyUpdate  EventType = "LOBBY_UPDATE"
	EventPlayerLeft   EventType = "PLAYER_LEFT"
	EventGameStarted  EventType = "GAME_STARTED"
	EventError        EventType = "ERROR"
)

// ClientMessage is the inbound envelope. Payload stays raw until the engine
// knows which shape the tag demands.
type ClientMessage struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage is the outbound envelope.
type ServerMessage struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// CreateGroupPayload asks for a new group with the sender as its owner.
type CreateGroupPayload struct {
	OwnerName string `json:"ownerName"`
}

// JoinGroupPayload asks to join an existing group.
type JoinGroupPayload struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

// SetReadyPayload toggles the sender's ready flag.
type SetReadyPayload struct {
	Ready bool `json:"ready"`
}

// GroupCreatedPayload confirms group creation to the owner.
type GroupCreatedPayload struct {
	GroupID string        `json:"groupId"`
	Owner   models.Player `json:"owner"`
}

// JoinedPayload confirms a join to the joining client.
type JoinedPayload struct {
	Player  models.Player `json:"player"`
	GroupID string        `json:"groupId"`
}

// PlayerJoinedPayload tells existing members about a new arrival.
type PlayerJoinedPayload struct {
	Player models.Player `json:"player"`
}

// PlayerLeftPayload tells remaining members who disconnected.
type PlayerLeftPayload struct {
	ID uuid.UUID `json:"id"`
}

// GameStartedPayload is broadcast when the owner starts the game.
type GameStartedPayload struct {
	GroupID   string          `json:"groupId"`
	Players   []models.Player `json:"players"`
	StartedBy models.Player   `json:"startedBy"`
}

// ErrorPayload carries a human-readable failure reason to one client.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Decode parses a raw inbound frame into its envelope.
func Decode(raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	err := json.Unmarshal(raw, &msg)
	return msg, err
}

// ErrorMessage wraps a reason string into an ERROR envelope.
func ErrorMessage(reason string) ServerMessage {
	return ServerMessage{Type: EventError, Payload: ErrorPayload{Message: reason}}
}
