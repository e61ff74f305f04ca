package relay

import (
	"sync"

	"github.com/samber/lo"
)

// Registry is the single source of truth for who is online. It maps a
// user identity to its one live connection; the map itself never leaves
// this struct.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register associates identity with client, replacing any previous
// registration for that identity. The replaced connection is abandoned,
// not closed: it stays open until it disconnects on its own.
func (r *Registry) Register(identity string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[identity] = client
}

// Unregister removes the registration for identity if one exists and
// reports whether anything was removed. Unregistering an absent identity
// is a no-op.
func (r *Registry) Unregister(identity string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[identity]; !ok {
		return false
	}
	delete(r.clients, identity)
	return true
}

// Lookup returns the current holder of identity's registration. Pure
// read, no side effects.
func (r *Registry) Lookup(identity string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[identity]
	return client, ok
}

// Snapshot copies out the registered connections so callers can iterate
// while registrations keep changing underneath.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.clients)
}

// Online returns the identities currently registered.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.clients)
}

// IsOnline reports whether identity holds a live registration.
func (r *Registry) IsOnline(identity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[identity]
	return ok
}

// Count returns the number of live registrations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
