package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dikno1d/mizme-chat/internal/domain"
)

type regEntry struct {
	Session *domain.Session
	Conn    SignalConn
}

// Registry owns the session state of every live connection, keyed by the
// transport-assigned connection id. It has no broadcasting side effects;
// announcing changes is the caller's responsibility.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.ConnID]*regEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.ConnID]*regEntry)}
}

// Bind attaches the transport endpoint before any session exists. A session
// is only created later, on the first join.
func (r *Registry) Bind(id domain.ConnID, conn SignalConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.Conn = conn
		return
	}
	r.entries[id] = &regEntry{Conn: conn}
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("bound connection")
}

// Upsert creates the session for a connection, replacing (never merging)
// any prior one.
func (r *Registry) Upsert(id domain.ConnID, username string, room domain.RoomID, color string) (domain.Session, error) {
	sess, err := domain.NewSession(id, username, room, color)
	if err != nil {
		return domain.Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		e = &regEntry{}
		r.entries[id] = e
	}
	e.Session = sess
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Str("username", username).Str("room", string(room)).Msg("session created")
	return *sess, nil
}

func (r *Registry) Get(id domain.ConnID) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok && e.Session != nil {
		return *e.Session, true
	}
	return domain.Session{}, false
}

func (r *Registry) Conn(id domain.ConnID) (SignalConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok && e.Conn != nil {
		return e.Conn, true
	}
	return nil, false
}

// Rename returns the previous username so callers can announce the change.
func (r *Registry) Rename(id domain.ConnID, username string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Session == nil {
		return "", ErrNotFound
	}
	old := e.Session.Username
	if err := e.Session.SetUsername(username); err != nil {
		return "", err
	}
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Str("old", old).Str("username", username).Msg("renamed")
	return old, nil
}

func (r *Registry) SetStatus(id domain.ConnID, status domain.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Session == nil {
		return ErrNotFound
	}
	e.Session.Status = status
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Str("status", string(status)).Msg("status changed")
	return nil
}

// Remove destroys the session but keeps the transport binding; the
// connection may join again.
func (r *Registry) Remove(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.Session = nil
	}
}

// Unbind drops the whole entry once the transport reports the connection gone.
func (r *Registry) Unbind(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("unbound connection")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
