package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
)

// handleRelay forwards an offer/answer/candidate payload to one target
// connection. The payload stays opaque end to end; only the envelope is
// decoded here.
func (ctl *Controller) handleRelay(kind domain.CallKind, event string, cid domain.ConnID, data []byte) {
	type relayPayload struct {
		Type    string          `json:"type"`
		Target  string          `json:"target"`
		Payload json.RawMessage `json:"payload"`
	}
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad relay payload")
		return
	}
	if p.Target == "" {
		return
	}
	ctl.Orch.RelaySignal(kind, event, cid, domain.ConnID(p.Target), p.Payload)
}
