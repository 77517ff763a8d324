package websocket

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrRegistryClosed is returned when creating an endpoint after Close.
var ErrRegistryClosed = errors.New("websocket: registry closed")

// Registry holds the websocket endpoints of a router by identifier.
type Registry struct {
	upgrader websocket.Upgrader

	mu       sync.Mutex
	managers map[string]*Manager
	closed   bool
}

// NewRegistry returns a registry whose endpoints accept same-origin
// handshakes only.
func NewRegistry() *Registry {
	return NewRegistryWithUpgrader(websocket.Upgrader{})
}

// NewRegistryWithUpgrader returns a registry using upgrader for every
// endpoint.
func NewRegistryWithUpgrader(upgrader websocket.Upgrader) *Registry {
	return &Registry{upgrader: upgrader, managers: make(map[string]*Manager)}
}

// SetCheckOrigin replaces the origin check of endpoints created from now on.
func (r *Registry) SetCheckOrigin(fn func(*http.Request) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upgrader.CheckOrigin = fn
}

// Manager returns the endpoint with the given identifier, creating it on
// first use.
func (r *Registry) Manager(id string) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if m, ok := r.managers[id]; ok {
		return m, nil
	}

	m := NewManager(id, r.upgrader)
	r.managers[id] = m
	return m, nil
}

// Lookup returns an existing endpoint.
func (r *Registry) Lookup(id string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.managers[id]
	return m, ok
}

// Close closes every endpoint.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.closed = true
	managers := r.managers
	r.managers = make(map[string]*Manager)
	r.mu.Unlock()

	var errs []error
	for _, m := range managers {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
