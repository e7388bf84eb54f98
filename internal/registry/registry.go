// Package registry maintains the bidirectional mapping between a client's
// declared identity and its current connection handle.
package registry

import "sync"

// Registry maps identities to connection handles and back. Identities are
// opaque client-supplied strings with no uniqueness guarantee: the most
// recent join wins, and an overwritten identity simply re-points at the
// newer handle. Safe for concurrent use.
type Registry struct {
	mu               sync.RWMutex
	identityToHandle map[string]string
	handleToIdentity map[string]string
}

func New() *Registry {
	return &Registry{
		identityToHandle: make(map[string]string),
		handleToIdentity: make(map[string]string),
	}
}

// Record binds identity and handle in both directions, overwriting any prior
// binding on either side. Idempotent.
func (r *Registry) Record(identity, handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// If this handle previously joined under another identity, drop that
	// forward entry so it doesn't point at a handle that no longer claims it.
	if prev, ok := r.handleToIdentity[handle]; ok && prev != identity {
		if r.identityToHandle[prev] == handle {
			delete(r.identityToHandle, prev)
		}
	}

	r.identityToHandle[identity] = handle
	r.handleToIdentity[handle] = identity
}

// Identity returns the identity the handle joined as.
func (r *Registry) Identity(handle string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.handleToIdentity[handle]
	return identity, ok
}

// Handle returns the most recent handle for an identity.
func (r *Registry) Handle(identity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handle, ok := r.identityToHandle[identity]
	return handle, ok
}

// Forget removes the handle's binding and returns the identity it had. The
// forward entry is deleted only if it still points at this exact handle: if
// the identity rejoined from a newer connection, that newer mapping survives.
func (r *Registry) Forget(handle string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.handleToIdentity[handle]
	if !ok {
		return "", false
	}
	delete(r.handleToIdentity, handle)

	if r.identityToHandle[identity] == handle {
		delete(r.identityToHandle, identity)
	}
	return identity, true
}

// Len reports the number of live handle bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handleToIdentity)
}
