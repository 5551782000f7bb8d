// internal/coord/engine.go

// Package coord implements the protocol engine: it validates inbound client
// events against registry state, applies mutations, and fans the resulting
// notifications out to the affected connections.
package coord

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lobbyd/lobbyd/internal/journal"
	"github.com/lobbyd/lobbyd/internal/lobby"
	"github.com/lobbyd/lobbyd/internal/protocol"
)

// Error strings surfaced to clients. These are part of the protocol; the UI
// displays them verbatim.
const (
	errInvalidJSON    = "Invalid JSON"
	errInvalidPayload = "Invalid payload"
	errGroupNotFound  = "Group not found"
	errGroupFull      = "Group is full"
	errNotInGroup     = "Not in a group"
	errNotOwner       = "Only the group owner can start the game"
	errNotAllReady    = "All players must be ready before starting"
	errOwnerCreate    = "Failed to create group owner"
)

// Engine is the coordination service. One mutex serializes every inbound
// event and every disconnect, which is the whole concurrency contract: no two
// handlers ever interleave against the registries. Outbound sends are
// non-blocking, so holding the lock across delivery is safe.
type Engine struct {
	mu      sync.Mutex
	log     *logrus.Logger
	groups  *lobby.GroupRegistry
	conns   *ConnectionRegistry
	journal *journal.Journal // nil when journaling is disabled
}

// NewEngine wires the engine to its registries. The registries are owned by
// the engine from here on; nothing else may touch them.
func NewEngine(log *logrus.Logger, groups *lobby.GroupRegistry, conns *ConnectionRegistry, jnl *journal.Journal) *Engine {
	return &Engine{
		log:     log,
		groups:  groups,
		conns:   conns,
		journal: jnl,
	}
}

// HandleMessage processes one raw frame from sender. Every failure is
// reported to the sender alone; no error path mutates state or broadcasts.
func (e *Engine) HandleMessage(sender Sender, raw []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	msg, err := protocol.Decode(raw)
	if err != nil {
		sender.Send(protocol.ErrorMessage(errInvalidJSON))
		return
	}

	switch msg.Type {
	case protocol.EventCreateGroup:
		e.handleCreateGroup(sender, msg.Payload)
	case protocol.EventJoinGroup:
		e.handleJoinGroup(sender, msg.Payload)
	case protocol.EventSetReady:
		e.handleSetReady(sender, msg.Payload)
	case protocol.EventStartGame:
		e.handleStartGame(sender)
	default:
		sender.Send(protocol.ErrorMessage(fmt.Sprintf("Unknown event type: %s", msg.Type)))
	}
}

func (e *Engine) handleCreateGroup(sender Sender, payload json.RawMessage) {
	var p protocol.CreateGroupPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.OwnerName == "" {
		sender.Send(protocol.ErrorMessage(errInvalidPayload))
		return
	}

	lob, owner, err := e.groups.CreateGroup(p.OwnerName)
	if err != nil {
		e.log.WithError(err).Error("create group failed")
		sender.Send(protocol.ErrorMessage(errOwnerCreate))
		return
	}

	e.conns.Associate(sender, lob.ID, owner.ID)
	sender.Send(protocol.ServerMessage{
		Type: protocol.EventGroupCreated,
		Payload: protocol.GroupCreatedPayload{
			GroupID: lob.ID.String(),
			Owner:   *owner,
		},
	})
	e.journal.Publish(journal.Record{Event: "group_created", GroupID: lob.ID.String(), PlayerCount: 1})
}

func (e *Engine) handleJoinGroup(sender Sender, payload json.RawMessage) {
	var p protocol.JoinGroupPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		sender.Send(protocol.ErrorMessage(errInvalidPayload))
		return
	}

	// Group IDs are opaque to clients; anything that doesn't parse simply
	// doesn't name a group.
	groupID, err := uuid.Parse(p.GroupID)
	if err != nil {
		sender.Send(protocol.ErrorMessage(errGroupNotFound))
		return
	}
	lob, ok := e.groups.GetGroup(groupID)
	if !ok {
		sender.Send(protocol.ErrorMessage(errGroupNotFound))
		return
	}
	if lob.IsFull() {
		sender.Send(protocol.ErrorMessage(errGroupFull))
		return
	}
	if p.Name == "" {
		sender.Send(protocol.ErrorMessage(errInvalidPayload))
		return
	}

	player := lob.AddPlayer(p.Name)
	if player == nil {
		sender.Send(protocol.ErrorMessage(errGroupFull))
		return
	}
	e.conns.Associate(sender, groupID, player.ID)
	e.log.WithFields(logrus.Fields{
		"group":  groupID,
		"player": player.ID,
		"name":   player.Name,
	}).Info("player joined group")

	sender.Send(protocol.ServerMessage{
		Type: protocol.EventJoined,
		Payload: protocol.JoinedPayload{
			Player:  *player,
			GroupID: groupID.String(),
		},
	})
	e.broadcast(groupID, protocol.ServerMessage{
		Type:    protocol.EventPlayerJoined,
		Payload: protocol.PlayerJoinedPayload{Player: *player},
	}, sender)
	e.broadcastLobbyUpdate(groupID, lob)
}

func (e *Engine) handleSetReady(sender Sender, payload json.RawMessage) {
	var p protocol.SetReadyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		sender.Send(protocol.ErrorMessage(errInvalidPayload))
		return
	}

	assoc, ok := e.conns.Lookup(sender)
	if !ok {
		sender.Send(protocol.ErrorMessage(errNotInGroup))
		return
	}
	lob, ok := e.groups.GetGroup(assoc.GroupID)
	if !ok {
		sender.Send(protocol.ErrorMessage(errGroupNotFound))
		return
	}

	lob.SetReady(assoc.PlayerID, p.Ready)
	e.broadcastLobbyUpdate(assoc.GroupID, lob)
}

func (e *Engine) handleStartGame(sender Sender) {
	assoc, ok := e.conns.Lookup(sender)
	if !ok {
		sender.Send(protocol.ErrorMessage(errNotInGroup))
		return
	}
	lob, ok := e.groups.GetGroup(assoc.GroupID)
	if !ok {
		sender.Send(protocol.ErrorMessage(errGroupNotFound))
		return
	}
	owner, ok := lob.Owner()
	if !ok || owner.ID != assoc.PlayerID {
		sender.Send(protocol.ErrorMessage(errNotOwner))
		return
	}
	if !lob.AllReady() {
		sender.Send(protocol.ErrorMessage(errNotAllReady))
		return
	}

	state := lob.Snapshot()
	e.broadcast(assoc.GroupID, protocol.ServerMessage{
		Type: protocol.EventGameStarted,
		Payload: protocol.GameStartedPayload{
			GroupID:   assoc.GroupID.String(),
			Players:   state.Players,
			StartedBy: owner,
		},
	}, nil)
	e.log.WithField("group", assoc.GroupID).Info("game started")
	e.journal.Publish(journal.Record{Event: "game_started", GroupID: assoc.GroupID.String(), PlayerCount: lob.Len()})
}

// Disconnect is invoked by the transport when a connection closes. A missing
// group just skips the broadcasts; the dissociation always happens.
func (e *Engine) Disconnect(sender Sender) {
	e.mu.Lock()
	defer e.mu.Unlock()

	assoc, ok := e.conns.Lookup(sender)
	if !ok {
		return
	}

	if lob, ok := e.groups.GetGroup(assoc.GroupID); ok {
		lob.RemovePlayer(assoc.PlayerID)
		e.broadcast(assoc.GroupID, protocol.ServerMessage{
			Type:    protocol.EventPlayerLeft,
			Payload: protocol.PlayerLeftPayload{ID: assoc.PlayerID},
		}, sender)

		if lob.Len() == 0 {
			e.groups.RemoveGroup(assoc.GroupID)
			e.journal.Publish(journal.Record{Event: "group_removed", GroupID: assoc.GroupID.String()})
		} else {
			e.broadcast(assoc.GroupID, protocol.ServerMessage{
				Type:    protocol.EventLobbyUpdate,
				Payload: lob.Snapshot(),
			}, sender)
		}
	}
	e.conns.Dissociate(sender)
	e.log.WithFields(logrus.Fields{
		"group":  assoc.GroupID,
		"player": assoc.PlayerID,
	}).Info("player left group")
}

// GroupSummaries exposes the registry listing under the engine lock, for the
// HTTP debug endpoint.
func (e *Engine) GroupSummaries() []lobby.GroupSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.groups.Summaries()
}

// broadcast resolves the group's membership once and attempts delivery to
// each peer except exclude. Sends never block, so one dead peer cannot hold
// up the rest.
func (e *Engine) broadcast(groupID uuid.UUID, msg protocol.ServerMessage, exclude Sender) {
	for _, peer := range e.conns.GroupPeers(groupID) {
		if peer == exclude {
			continue
		}
		peer.Send(msg)
	}
}

func (e *Engine) broadcastLobbyUpdate(groupID uuid.UUID, lob *lobby.Lobby) {
	e.broadcast(groupID, protocol.ServerMessage{
		Type:    protocol.EventLobbyUpdate,
		Payload: lob.Snapshot(),
	}, nil)
}
