package orch

import (
	"encoding/json"

	"github.com/dikno1d/mizme-chat/internal/domain"
	"github.com/dikno1d/mizme-chat/pkg/protocol"
)

type callNotice struct {
	Type string                 `json:"type"`
	User domain.CallParticipant `json:"user"`
}

func callJoinedEvent(kind domain.CallKind) string {
	if kind == domain.CallVideo {
		return protocol.EvVideoUserJoined
	}
	return protocol.EvVoiceUserJoined
}

func callLeftEvent(kind domain.CallKind) string {
	if kind == domain.CallVideo {
		return protocol.EvVideoUserLeft
	}
	return protocol.EvVoiceUserLeft
}

// JoinCall adds the connection to the voice or video roster and announces it
// to the whole room, so observers not yet in the call can see it start. The
// returned list is the other participants, for the caller's initial view.
func (o *Orchestrator) JoinCall(kind domain.CallKind, cid domain.ConnID) ([]domain.CallParticipant, error) {
	rec, others, err := o.roster(kind).Join(cid)
	if err != nil {
		return nil, err
	}
	o.broadcastRoom(rec.Room, cid, callNotice{Type: callJoinedEvent(kind), User: rec})
	return others, nil
}

// LeaveCall is a no-op when the connection holds no record of this kind.
func (o *Orchestrator) LeaveCall(kind domain.CallKind, cid domain.ConnID) {
	rec, ok := o.roster(kind).Leave(cid)
	if !ok {
		return
	}
	o.broadcastRoom(rec.Room, cid, callNotice{Type: callLeftEvent(kind), User: rec})
}

// UpdateVoiceState merges mute/deafen flags and announces the new record to
// the room.
func (o *Orchestrator) UpdateVoiceState(cid domain.ConnID, muted, deafened bool) (domain.CallParticipant, error) {
	rec, err := o.Voice.UpdateState(cid, muted, deafened)
	if err != nil {
		return domain.CallParticipant{}, err
	}
	o.broadcastRoom(rec.Room, cid, callNotice{Type: protocol.EvVoiceStateChanged, User: rec})
	return rec, nil
}

// RelaySignal forwards an opaque negotiation payload to one target
// connection; stale targets are dropped silently.
func (o *Orchestrator) RelaySignal(kind domain.CallKind, event string, from, target domain.ConnID, payload json.RawMessage) {
	o.Relay.Forward(kind, event, from, target, payload)
}
