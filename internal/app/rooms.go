package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
)

// Directory holds the fixed room catalog and each room's membership set.
// Membership references sessions by ConnID only; it never owns session data.
// Counts are always derived from set cardinality.
type Directory struct {
	mu      sync.RWMutex
	catalog map[domain.RoomID]domain.Room
	members map[domain.RoomID]map[domain.ConnID]struct{}
}

func NewDirectory(rooms []domain.Room) *Directory {
	d := &Directory{
		catalog: make(map[domain.RoomID]domain.Room, len(rooms)),
		members: make(map[domain.RoomID]map[domain.ConnID]struct{}, len(rooms)),
	}
	for _, room := range rooms {
		d.catalog[room.ID] = room
		d.members[room.ID] = make(map[domain.ConnID]struct{})
	}
	return d
}

func (d *Directory) Room(id domain.RoomID) (domain.Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room, ok := d.catalog[id]
	return room, ok
}

func (d *Directory) Join(roomID domain.RoomID, cid domain.ConnID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.members[roomID]
	if !ok {
		return ErrUnknownRoom
	}
	set[cid] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("cid", string(cid)).Msg("member added")
	return nil
}

// Leave is idempotent: leaving a room you are not in is a no-op.
func (d *Directory) Leave(roomID domain.RoomID, cid domain.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if set, ok := d.members[roomID]; ok {
		delete(set, cid)
	}
}

func (d *Directory) Members(roomID domain.RoomID) []domain.ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set := d.members[roomID]
	out := make([]domain.ConnID, 0, len(set))
	for cid := range set {
		out = append(out, cid)
	}
	return out
}

func (d *Directory) Count(roomID domain.RoomID) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.members[roomID])
}

type RoomInfo struct {
	domain.Room
	MemberCount int `json:"memberCount"`
}

// List returns the catalog with live member counts, sorted by room id for
// consistent ordering.
func (d *Directory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]RoomInfo, 0, len(d.catalog))
	for id, room := range d.catalog {
		out = append(out, RoomInfo{Room: room, MemberCount: len(d.members[id])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
