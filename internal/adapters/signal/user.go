package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
)

func (ctl *Controller) handleChangeUsername(cid domain.ConnID, conn *WsSignalConn, data []byte) {
	type renamePayload struct {
		Type    string `json:"type"`
		NewName string `json:"newName"`
	}
	var p renamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad rename payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	if err := ctl.Orch.Rename(cid, p.NewName); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("rename rejected")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "invalid_name",
		})
	}
}

// handleSetStatus silently ignores invalid statuses; there is no ack
// channel for status changes.
func (ctl *Controller) handleSetStatus(cid domain.ConnID, data []byte) {
	type statusPayload struct {
		Type   string `json:"type"`
		Status string `json:"status"`
	}
	var p statusPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad status payload")
		return
	}
	if err := ctl.Orch.SetStatus(cid, domain.Status(p.Status)); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Str("status", p.Status).Msg("status ignored")
	}
}
