package domain

type RoomID string

// Room is one entry of the static catalog configured at startup. Rooms are
// never created or destroyed at runtime.
type Room struct {
	ID          RoomID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
