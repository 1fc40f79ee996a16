package ws

import (
	"sync"
	"sync/atomic"
)

// Registry maps a session id to that session's outbound mailbox. Session ids
// are allocated from a strictly increasing counter starting at 1 and are
// never reused.
type Registry struct {
	mu       sync.RWMutex
	channels map[uint64]chan AccountUpdateMessage
	nextID   atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[uint64]chan AccountUpdateMessage)}
}

// NextID allocates a fresh session id.
func (r *Registry) NextID() uint64 {
	return r.nextID.Add(1)
}

func (r *Registry) Register(sessionID uint64, ch chan AccountUpdateMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[sessionID] = ch
}

// Unregister removes a session's mailbox. Idempotent.
func (r *Registry) Unregister(sessionID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, sessionID)
}

// ChannelOf returns a session's mailbox, or false if the session is gone.
func (r *Registry) ChannelOf(sessionID uint64) (chan AccountUpdateMessage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[sessionID]
	return ch, ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
