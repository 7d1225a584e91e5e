package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
)

// Roster tracks which connections are in one call type. Voice and video are
// two independent instances of this logic; a connection holds at most one
// record per roster. The record's room is fixed to the owning session's
// room at join time.
type Roster struct {
	kind    domain.CallKind
	reg     *Registry
	mu      sync.RWMutex
	records map[domain.ConnID]*domain.CallParticipant
}

func NewRoster(kind domain.CallKind, reg *Registry) *Roster {
	return &Roster{
		kind:    kind,
		reg:     reg,
		records: make(map[domain.ConnID]*domain.CallParticipant),
	}
}

func (c *Roster) Kind() domain.CallKind { return c.kind }

// Join creates (or overwrites) the caller's record and returns the other
// participants already in the call for the caller's room.
func (c *Roster) Join(cid domain.ConnID) (domain.CallParticipant, []domain.CallParticipant, error) {
	sess, ok := c.reg.Get(cid)
	if !ok || sess.Room == "" {
		return domain.CallParticipant{}, nil, ErrNotJoinedToRoom
	}
	rec := &domain.CallParticipant{
		ID:       cid,
		Username: sess.Username,
		Room:     sess.Room,
	}
	c.mu.Lock()
	c.records[cid] = rec
	c.mu.Unlock()
	log.Info().Str("module", "app.calls").Str("kind", string(c.kind)).Str("cid", string(cid)).Str("room", string(sess.Room)).Msg("call joined")
	return *rec, c.participantsExcept(sess.Room, cid), nil
}

// Leave removes the record if present and reports what was removed so the
// caller can announce the departure. No-op when absent.
func (c *Roster) Leave(cid domain.ConnID) (domain.CallParticipant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[cid]
	if !ok {
		return domain.CallParticipant{}, false
	}
	delete(c.records, cid)
	log.Info().Str("module", "app.calls").Str("kind", string(c.kind)).Str("cid", string(cid)).Msg("call left")
	return *rec, true
}

// UpdateState merges mute/deafen flags into an existing record.
func (c *Roster) UpdateState(cid domain.ConnID, muted, deafened bool) (domain.CallParticipant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[cid]
	if !ok {
		return domain.CallParticipant{}, ErrNotInCall
	}
	rec.Muted = muted
	rec.Deafened = deafened
	return *rec, nil
}

// Rename refreshes the denormalized username. No-op when the connection has
// no record.
func (c *Roster) Rename(cid domain.ConnID, username string) (domain.CallParticipant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[cid]
	if !ok {
		return domain.CallParticipant{}, false
	}
	rec.Username = username
	return *rec, true
}

func (c *Roster) Get(cid domain.ConnID) (domain.CallParticipant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if rec, ok := c.records[cid]; ok {
		return *rec, true
	}
	return domain.CallParticipant{}, false
}

func (c *Roster) Participants(roomID domain.RoomID) []domain.CallParticipant {
	return c.participantsExcept(roomID, "")
}

func (c *Roster) participantsExcept(roomID domain.RoomID, skip domain.ConnID) []domain.CallParticipant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CallParticipant, 0, len(c.records))
	for cid, rec := range c.records {
		if cid == skip || rec.Room != roomID {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (c *Roster) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
