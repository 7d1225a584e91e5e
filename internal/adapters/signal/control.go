package signal

import "github.com/dikno1d/mizme-chat/pkg/protocol"

func (ctl *Controller) handlePing(conn *WsSignalConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: protocol.EvPong,
	}
	ctl.sendJSON(conn, resp)
}
