package app

import (
	"encoding/json"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
	"github.com/dikno1d/mizme-chat/pkg/protocol"
)

// MemberView is one row of a room presence snapshot.
type MemberView struct {
	Username string        `json:"username"`
	Status   domain.Status `json:"status"`
	Color    string        `json:"color"`
}

// Broadcaster derives room presence snapshots and fans them out. It performs
// no mutation itself; callers invoke Publish after every change to room
// membership, a member's username, or a member's status.
type Broadcaster struct {
	reg   *Registry
	rooms *Directory
}

func NewBroadcaster(reg *Registry, rooms *Directory) *Broadcaster {
	return &Broadcaster{reg: reg, rooms: rooms}
}

// Snapshot resolves every member through the registry, silently dropping
// ids that no longer resolve (a member may be mid-removal). Sorted by
// username for consistent ordering.
func (b *Broadcaster) Snapshot(roomID domain.RoomID) []MemberView {
	members := b.rooms.Members(roomID)
	out := make([]MemberView, 0, len(members))
	for _, cid := range members {
		sess, ok := b.reg.Get(cid)
		if !ok {
			continue
		}
		out = append(out, MemberView{Username: sess.Username, Status: sess.Status, Color: sess.Color})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Publish computes the snapshot and emits it to every member of the room.
func (b *Broadcaster) Publish(roomID domain.RoomID) {
	users := b.Snapshot(roomID)
	frame, err := json.Marshal(struct {
		Type  string       `json:"type"`
		Users []MemberView `json:"users"`
		Count int          `json:"count"`
	}{
		Type:  protocol.EvUpdateUsers,
		Users: users,
		Count: len(users),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("marshal snapshot")
		return
	}
	for _, cid := range b.rooms.Members(roomID) {
		conn, ok := b.reg.Conn(cid)
		if !ok {
			continue
		}
		if err := conn.TrySend(frame); err != nil {
			log.Debug().Str("module", "app.presence").Str("cid", string(cid)).Msg("dropped presence frame")
		}
	}
}
