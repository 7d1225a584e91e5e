package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
)

func (ctl *Controller) handleSendMessage(cid domain.ConnID, data []byte) {
	type messagePayload struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		IsImage  bool   `json:"isImage"`
		IsAction bool   `json:"isAction"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		return
	}
	if p.Text == "" {
		return
	}
	if err := ctl.Orch.Chat(cid, p.Text, p.IsImage, p.IsAction); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("message dropped")
	}
}

func (ctl *Controller) handleTyping(cid domain.ConnID, stopped bool) {
	if err := ctl.Orch.Typing(cid, stopped); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("typing dropped")
	}
}
