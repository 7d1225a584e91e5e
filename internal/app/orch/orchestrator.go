// Package orch drives every session state transition: join, rejoin, call
// membership, rename, status, disconnect. Handlers call in here; the
// orchestrator mutates the registries and fans announcements out to rooms.
package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/app"
	"github.com/dikno1d/mizme-chat/internal/domain"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.Directory
	Voice    *app.Roster
	Video    *app.Roster
	Presence *app.Broadcaster
	Relay    *app.Relay
}

func New(reg *app.Registry, rooms *app.Directory) *Orchestrator {
	voice := app.NewRoster(domain.CallVoice, reg)
	video := app.NewRoster(domain.CallVideo, reg)
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Voice:    voice,
		Video:    video,
		Presence: app.NewBroadcaster(reg, rooms),
		Relay:    app.NewRelay(reg, voice, video),
	}
}

func (o *Orchestrator) roster(kind domain.CallKind) *app.Roster {
	if kind == domain.CallVideo {
		return o.Video
	}
	return o.Voice
}

// broadcastRoom sends v to every member of the room, optionally skipping one
// connection (the actor already informed through its acknowledgment).
func (o *Orchestrator) broadcastRoom(roomID domain.RoomID, skip domain.ConnID, v any) {
	frame, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal broadcast")
		return
	}
	for _, cid := range o.Rooms.Members(roomID) {
		if cid == skip {
			continue
		}
		conn, ok := o.Registry.Conn(cid)
		if !ok {
			continue
		}
		if err := conn.TrySend(app.Frame(frame)); err != nil {
			log.Debug().Str("module", "orch").Str("cid", string(cid)).Msg("dropped broadcast frame")
		}
	}
}

type Stats struct {
	Connections int            `json:"connections"`
	Rooms       []app.RoomInfo `json:"rooms"`
	VoiceUsers  int            `json:"voiceUsers"`
	VideoUsers  int            `json:"videoUsers"`
}

func (o *Orchestrator) Stats() Stats {
	return Stats{
		Connections: o.Registry.Len(),
		Rooms:       o.Rooms.List(),
		VoiceUsers:  o.Voice.Size(),
		VideoUsers:  o.Video.Size(),
	}
}
