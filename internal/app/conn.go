package app

// Frame is a raw outbound payload, already encoded for the wire.
type Frame []byte

// SignalConn abstracts the per-connection messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConn interface {
	TrySend(Frame) error
	Close()
}
