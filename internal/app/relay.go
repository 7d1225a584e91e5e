package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
)

// Relay forwards opaque call-negotiation payloads between two specific
// connections. It never inspects the payload and never broadcasts; a
// payload addressed to a target without a matching call record is silently
// dropped, since the target may have legitimately just left.
type Relay struct {
	reg   *Registry
	voice *Roster
	video *Roster
}

func NewRelay(reg *Registry, voice, video *Roster) *Relay {
	return &Relay{reg: reg, voice: voice, video: video}
}

func (r *Relay) roster(kind domain.CallKind) *Roster {
	if kind == domain.CallVideo {
		return r.video
	}
	return r.voice
}

// Forward sends {from, payload} under the given event type to exactly the
// target connection.
func (r *Relay) Forward(kind domain.CallKind, event string, from, target domain.ConnID, payload json.RawMessage) {
	if _, ok := r.roster(kind).Get(target); !ok {
		log.Debug().Str("module", "app.relay").Str("kind", string(kind)).Str("target", string(target)).Msg("stale relay target, dropped")
		return
	}
	conn, ok := r.reg.Conn(target)
	if !ok {
		return
	}
	frame, err := json.Marshal(struct {
		Type    string          `json:"type"`
		From    domain.ConnID   `json:"from"`
		Payload json.RawMessage `json:"payload"`
	}{
		Type:    event,
		From:    from,
		Payload: payload,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal relay frame")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Str("module", "app.relay").Str("target", string(target)).Msg("dropped relay frame")
	}
}
