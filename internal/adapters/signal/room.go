package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/app"
	"github.com/dikno1d/mizme-chat/internal/domain"
	"github.com/dikno1d/mizme-chat/pkg/protocol"
)

func (ctl *Controller) handleJoin(cid domain.ConnID, conn *WsSignalConn, data []byte) {
	type joinPayload struct {
		Type     string `json:"type"`
		Username string `json:"username"`
		Room     string `json:"room"`
		Color    string `json:"color"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJoinError(conn, protocol.CodeBadPayload)
		return
	}

	room, sess, err := ctl.Orch.Join(cid, p.Username, domain.RoomID(p.Room), p.Color)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Str("room", p.Room).Msg("join rejected")
		ctl.sendJoinError(conn, joinErrorCode(err))
		return
	}

	resp := struct {
		Type    string         `json:"type"`
		Success bool           `json:"success"`
		Room    domain.Room    `json:"room"`
		Session domain.Session `json:"session"`
	}{
		Type:    protocol.EvJoined,
		Success: true,
		Room:    room,
		Session: sess,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *Controller) sendJoinError(conn *WsSignalConn, code string) {
	ctl.sendJSON(conn, struct {
		Type    string `json:"type"`
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{
		Type:  protocol.EvJoined,
		Error: code,
	})
}

func joinErrorCode(err error) string {
	switch {
	case errors.Is(err, app.ErrUnknownRoom):
		return protocol.CodeUnknownRoom
	case errors.Is(err, domain.ErrUsernameEmpty), errors.Is(err, domain.ErrUsernameTooLong):
		return protocol.CodeInvalidUsername
	}
	return protocol.CodeBadPayload
}
