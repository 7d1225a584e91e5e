package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
	"github.com/dikno1d/mizme-chat/pkg/protocol"
)

func callUsersEvent(kind domain.CallKind) string {
	if kind == domain.CallVideo {
		return protocol.EvVideoChatUsers
	}
	return protocol.EvVoiceChatUsers
}

func (ctl *Controller) handleJoinCall(kind domain.CallKind, cid domain.ConnID, conn *WsSignalConn) {
	others, err := ctl.Orch.JoinCall(kind, cid)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("kind", string(kind)).Str("cid", string(cid)).Msg("call join rejected")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": protocol.CodeNotInRoom,
		})
		return
	}
	ctl.sendJSON(conn, struct {
		Type  string                   `json:"type"`
		Users []domain.CallParticipant `json:"users"`
	}{
		Type:  callUsersEvent(kind),
		Users: others,
	})
}

func (ctl *Controller) handleVoiceStateChange(cid domain.ConnID, conn *WsSignalConn, data []byte) {
	type statePayload struct {
		Type       string `json:"type"`
		IsMuted    bool   `json:"isMuted"`
		IsDeafened bool   `json:"isDeafened"`
	}
	var p statePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad voice state payload")
		return
	}
	rec, err := ctl.Orch.UpdateVoiceState(cid, p.IsMuted, p.IsDeafened)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("voice state dropped")
		return
	}
	ctl.sendJSON(conn, struct {
		Type string                 `json:"type"`
		User domain.CallParticipant `json:"user"`
	}{
		Type: protocol.EvVoiceStateChanged,
		User: rec,
	})
}
