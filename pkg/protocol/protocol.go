// Package protocol defines the event names shared between client and server.
package protocol

// Inbound event types (client -> server).
const (
	EvJoin           = "join"
	EvSendMessage    = "sendMessage"
	EvTyping         = "typing"
	EvStopTyping     = "stopTyping"
	EvChangeUsername = "changeUsername"
	EvSetStatus      = "setStatus"
	EvPing           = "ping"

	EvJoinVoiceChat    = "joinVoiceChat"
	EvLeaveVoiceChat   = "leaveVoiceChat"
	EvJoinVideoChat    = "joinVideoChat"
	EvLeaveVideoChat   = "leaveVideoChat"
	EvVoiceStateChange = "voiceStateChange"

	EvVoiceOffer        = "voiceOffer"
	EvVoiceAnswer       = "voiceAnswer"
	EvVoiceIceCandidate = "voiceIceCandidate"
	EvVideoOffer        = "videoOffer"
	EvVideoAnswer       = "videoAnswer"
	EvVideoIceCandidate = "videoIceCandidate"
)

// Outbound event types (server -> client).
const (
	EvJoined              = "joined"
	EvMessage             = "message"
	EvUpdateUsers         = "updateUsers"
	EvUserChangedUsername = "userChangedUsername"
	EvUserStatusChanged   = "userStatusChanged"
	EvPong                = "pong"

	EvVoiceChatUsers    = "voiceChatUsers"
	EvVideoChatUsers    = "videoChatUsers"
	EvVoiceUserJoined   = "voiceUserJoined"
	EvVoiceUserLeft     = "voiceUserLeft"
	EvVoiceUserUpdated  = "voiceUserUpdated"
	EvVideoUserJoined   = "videoUserJoined"
	EvVideoUserLeft     = "videoUserLeft"
	EvVideoUserUpdated  = "videoUserUpdated"
	EvVoiceStateChanged = "voiceStateChanged"
)

// Error codes carried in acknowledgments.
const (
	CodeUnknownRoom     = "unknown_room"
	CodeInvalidUsername = "invalid_username"
	CodeBadPayload      = "bad_payload"
	CodeNotInRoom       = "not_in_room"
)

// Envelope is the minimal shape every frame shares; the concrete payload is
// decoded a second time by the matching handler.
type Envelope struct {
	Type string `json:"type"`
}
