package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
	"github.com/dikno1d/mizme-chat/pkg/protocol"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cid domain.ConnID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		ctl.dispatchDisconnect(cid)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.dispatch(cid, c, data)
		}
	}
}

// dispatch runs one inbound event to completion under the controller mutex.
// A panicking handler is contained to its event; the connection survives.
func (ctl *Controller) dispatch(cid domain.ConnID, c *WsSignalConn, data []byte) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Str("module", "signal").Str("cid", string(cid)).Msg("handler panic")
		}
	}()
	ctl.handleEvent(cid, c, data)
}

func (ctl *Controller) dispatchDisconnect(cid domain.ConnID) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.Orch.Disconnect(cid)
}

func (ctl *Controller) handleEvent(cid domain.ConnID, c *WsSignalConn, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case protocol.EvJoin:
		ctl.handleJoin(cid, c, data)
	case protocol.EvSendMessage:
		ctl.handleSendMessage(cid, data)
	case protocol.EvTyping:
		ctl.handleTyping(cid, false)
	case protocol.EvStopTyping:
		ctl.handleTyping(cid, true)
	case protocol.EvChangeUsername:
		ctl.handleChangeUsername(cid, c, data)
	case protocol.EvSetStatus:
		ctl.handleSetStatus(cid, data)
	case protocol.EvPing:
		ctl.handlePing(c)
	case protocol.EvJoinVoiceChat:
		ctl.handleJoinCall(domain.CallVoice, cid, c)
	case protocol.EvJoinVideoChat:
		ctl.handleJoinCall(domain.CallVideo, cid, c)
	case protocol.EvLeaveVoiceChat:
		ctl.Orch.LeaveCall(domain.CallVoice, cid)
	case protocol.EvLeaveVideoChat:
		ctl.Orch.LeaveCall(domain.CallVideo, cid)
	case protocol.EvVoiceStateChange:
		ctl.handleVoiceStateChange(cid, c, data)
	case protocol.EvVoiceOffer, protocol.EvVoiceAnswer, protocol.EvVoiceIceCandidate:
		ctl.handleRelay(domain.CallVoice, env.Type, cid, data)
	case protocol.EvVideoOffer, protocol.EvVideoAnswer, protocol.EvVideoIceCandidate:
		ctl.handleRelay(domain.CallVideo, env.Type, cid, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
