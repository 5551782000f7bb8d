// internal/protocol/protocol_test.go
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobbyd/lobbyd/internal/models"
)

func TestDecodeEnvelope(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"JOIN_GROUP","payload":{"groupId":"g1","name":"Bob"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventJoinGroup, msg.Type)

	var p JoinGroupPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	assert.Equal(t, "g1", p.GroupID)
	assert.Equal(t, "Bob", p.Name)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte(`{"type":`))
	assert.Error(t, err)

	_, err = Decode([]byte(`[1,2,3]`))
	assert.Error(t, err)
}

func TestDecodeMissingPayload(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"START_GAME"}`))
	require.NoError(t, err)
	assert.Equal(t, EventStartGame, msg.Type)
	assert.Nil(t, msg.Payload)
}

// The wire shape is consumed by external clients, so pin the field names once.
func TestServerMessageWireShape(t *testing.T) {
	ownerID := uuid.New()
	msg := ServerMessage{
		Type: EventLobbyUpdate,
		Payload: models.LobbyState{
			OwnerID: ownerID,
			Players: []models.Player{{ID: ownerID, Name: "Alice", Ready: true}},
		},
	}
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "LOBBY_UPDATE", decoded["type"])

	payload := decoded["payload"].(map[string]any)
	assert.Equal(t, ownerID.String(), payload["ownerId"])
	players := payload["players"].([]any)
	require.Len(t, players, 1)
	first := players[0].(map[string]any)
	assert.Equal(t, "Alice", first["name"])
	assert.Equal(t, true, first["ready"])
	assert.Equal(t, ownerID.String(), first["id"])
}

func TestErrorMessage(t *testing.T) {
	data, err := json.Marshal(ErrorMessage("Group not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ERROR","payload":{"message":"Group not found"}}`, string(data))
}
