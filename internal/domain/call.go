package domain

type CallKind string

const (
	CallVoice CallKind = "voice"
	CallVideo CallKind = "video"
)

// CallParticipant is one connection's membership in a voice or video call.
// Username is a denormalized snapshot, kept in sync on rename. Muted and
// Deafened only carry meaning for voice participants.
type CallParticipant struct {
	ID       ConnID `json:"id"`
	Username string `json:"username"`
	Room     RoomID `json:"room"`
	Muted    bool   `json:"isMuted"`
	Deafened bool   `json:"isDeafened"`
}
