package orch

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/ksuid"

	"github.com/dikno1d/mizme-chat/internal/app"
	"github.com/dikno1d/mizme-chat/internal/domain"
	"github.com/dikno1d/mizme-chat/pkg/protocol"
)

type chatMessage struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	IsImage   bool      `json:"isImage,omitempty"`
	IsAction  bool      `json:"isAction,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func newChatMessage(user, text string, isImage, isAction bool) chatMessage {
	return chatMessage{
		Type:      protocol.EvMessage,
		ID:        ksuid.New().String(),
		User:      user,
		Text:      text,
		IsImage:   isImage,
		IsAction:  isAction,
		Timestamp: time.Now(),
	}
}

// Join moves a connection into a room. Any prior session is fully torn down
// first (implicit leave, announced to the old room), so repeating a join is
// safe: it re-executes teardown-then-create.
func (o *Orchestrator) Join(cid domain.ConnID, username string, roomID domain.RoomID, color string) (domain.Room, domain.Session, error) {
	room, ok := o.Rooms.Room(roomID)
	if !ok {
		return domain.Room{}, domain.Session{}, app.ErrUnknownRoom
	}
	if err := domain.ValidateUsername(username); err != nil {
		return domain.Room{}, domain.Session{}, err
	}

	if prev, ok := o.Registry.Get(cid); ok {
		o.teardown(cid, prev)
	}

	sess, err := o.Registry.Upsert(cid, username, roomID, color)
	if err != nil {
		return domain.Room{}, domain.Session{}, err
	}
	if err := o.Rooms.Join(roomID, cid); err != nil {
		return domain.Room{}, domain.Session{}, err
	}

	log.Info().Str("module", "orch").Str("cid", string(cid)).Str("room", string(roomID)).Str("username", username).Msg("joined room")
	o.broadcastRoom(roomID, cid, newChatMessage(username, "has joined the room", false, true))
	o.Presence.Publish(roomID)
	return room, sess, nil
}

// teardown removes every trace of the session from the call rosters and the
// room, announcing each departure to the room it was scoped to.
func (o *Orchestrator) teardown(cid domain.ConnID, prev domain.Session) {
	if rec, ok := o.Voice.Leave(cid); ok {
		o.broadcastRoom(rec.Room, cid, callNotice{Type: protocol.EvVoiceUserLeft, User: rec})
	}
	if rec, ok := o.Video.Leave(cid); ok {
		o.broadcastRoom(rec.Room, cid, callNotice{Type: protocol.EvVideoUserLeft, User: rec})
	}
	o.Rooms.Leave(prev.Room, cid)
	o.broadcastRoom(prev.Room, cid, newChatMessage(prev.Username, "has left the room", false, true))
	o.Presence.Publish(prev.Room)
}

// Disconnect is terminal: full teardown plus an offline-status announcement.
// The connection id is never reused.
func (o *Orchestrator) Disconnect(cid domain.ConnID) {
	sess, ok := o.Registry.Get(cid)
	if ok {
		if rec, found := o.Voice.Leave(cid); found {
			o.broadcastRoom(rec.Room, cid, callNotice{Type: protocol.EvVoiceUserLeft, User: rec})
		}
		if rec, found := o.Video.Leave(cid); found {
			o.broadcastRoom(rec.Room, cid, callNotice{Type: protocol.EvVideoUserLeft, User: rec})
		}
		o.Rooms.Leave(sess.Room, cid)
		o.broadcastRoom(sess.Room, cid, newChatMessage(sess.Username, "has left the room", false, true))
		o.broadcastRoom(sess.Room, cid, statusNotice{Type: protocol.EvUserStatusChanged, User: sess.Username, Status: domain.StatusOffline})
		o.Presence.Publish(sess.Room)
	}
	o.Registry.Unbind(cid)
	log.Info().Str("module", "orch").Str("cid", string(cid)).Msg("disconnected")
}

// Chat broadcasts a message to the sender's room, sender included.
func (o *Orchestrator) Chat(cid domain.ConnID, text string, isImage, isAction bool) error {
	sess, ok := o.Registry.Get(cid)
	if !ok {
		return app.ErrNotFound
	}
	o.broadcastRoom(sess.Room, "", newChatMessage(sess.Username, text, isImage, isAction))
	return nil
}

type typingNotice struct {
	Type string `json:"type"`
	User string `json:"user"`
}

// Typing broadcasts an ephemeral typing indicator, sender excluded. No
// state is kept.
func (o *Orchestrator) Typing(cid domain.ConnID, stopped bool) error {
	sess, ok := o.Registry.Get(cid)
	if !ok {
		return app.ErrNotFound
	}
	ev := protocol.EvTyping
	if stopped {
		ev = protocol.EvStopTyping
	}
	o.broadcastRoom(sess.Room, cid, typingNotice{Type: ev, User: sess.Username})
	return nil
}

type renameNotice struct {
	Type    string `json:"type"`
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// Rename propagates the new name synchronously: session, denormalized call
// records (announced per call type), room announcement, presence refresh.
func (o *Orchestrator) Rename(cid domain.ConnID, username string) error {
	old, err := o.Registry.Rename(cid, username)
	if err != nil {
		return err
	}
	sess, _ := o.Registry.Get(cid)
	if rec, ok := o.Voice.Rename(cid, username); ok {
		o.broadcastRoom(rec.Room, "", callNotice{Type: protocol.EvVoiceUserUpdated, User: rec})
	}
	if rec, ok := o.Video.Rename(cid, username); ok {
		o.broadcastRoom(rec.Room, "", callNotice{Type: protocol.EvVideoUserUpdated, User: rec})
	}
	o.broadcastRoom(sess.Room, "", renameNotice{Type: protocol.EvUserChangedUsername, OldName: old, NewName: username})
	o.Presence.Publish(sess.Room)
	return nil
}

type statusNotice struct {
	Type   string        `json:"type"`
	User   string        `json:"user"`
	Status domain.Status `json:"status"`
}

func (o *Orchestrator) SetStatus(cid domain.ConnID, status domain.Status) error {
	if err := o.Registry.SetStatus(cid, status); err != nil {
		return err
	}
	sess, _ := o.Registry.Get(cid)
	o.broadcastRoom(sess.Room, "", statusNotice{Type: protocol.EvUserStatusChanged, User: sess.Username, Status: status})
	o.Presence.Publish(sess.Room)
	return nil
}
