package game

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cyberaware/gameserver/internal/catalog"
)

// Registry is the owned, concurrency-safe map from opaque session ids to
// live sessions. Lifetime policy (expiry, eviction) belongs to callers; the
// registry only creates, looks up, and removes.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	catalog  *catalog.Catalog
	selector *Selector
}

// NewRegistry creates an empty registry that builds sessions against the
// given catalog and selector.
func NewRegistry(cat *catalog.Catalog, sel *Selector) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		catalog:  cat,
		selector: sel,
	}
}

// Create makes a fresh session under the given id, replacing any previous
// session with the same id. An empty id gets a generated UUID. Returns the
// effective id and the session.
func (r *Registry) Create(id string) (string, *Session) {
	if id == "" {
		id = uuid.NewString()
	}
	sess := NewSession(r.catalog, r.selector)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = sess
	return id, sess
}

// Get returns the session for id, or false when unknown.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Delete removes the session for id, if present.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
