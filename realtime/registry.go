package realtime

import "sync"

// Connection is one live full-duplex channel to a client device.
type Connection interface {
	IsOpen() bool
	Send(data []byte) error
}

// Registry maps a profile id to its currently open connections. A profile can
// hold several at once (multi-device); every one receives each event. The
// registry is injected wherever it is used so a multi-instance deployment can
// substitute a distributed implementation without changing call sites.
type Registry interface {
	Add(profileID string, conn Connection)
	Remove(profileID string, conn Connection)
	Connections(profileID string) []Connection
}

// InMemoryRegistry is the single-instance Registry.
type InMemoryRegistry struct {
	mu    sync.RWMutex
	conns map[string]map[Connection]struct{}
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		conns: make(map[string]map[Connection]struct{}),
	}
}

func (r *InMemoryRegistry) Add(profileID string, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[profileID]; !ok {
		r.conns[profileID] = make(map[Connection]struct{})
	}
	r.conns[profileID][conn] = struct{}{}
}

func (r *InMemoryRegistry) Remove(profileID string, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.conns[profileID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.conns, profileID)
		}
	}
}

// Connections returns a snapshot; concurrent adds and removes never disturb
// an iteration over the returned slice.
func (r *InMemoryRegistry) Connections(profileID string) []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.conns[profileID]
	if !ok {
		return nil
	}
	snapshot := make([]Connection, 0, len(set))
	for conn := range set {
		snapshot = append(snapshot, conn)
	}
	return snapshot
}
