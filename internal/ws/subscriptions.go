package ws

import "sync"

// SubscriptionIndex maps a pubkey to the set of sessions subscribed to it.
// Readers (broadcast lookups) take the read lock; mutations take the write
// lock, so a reader always observes a consistent set. Empty sets are pruned.
type SubscriptionIndex struct {
	mu   sync.RWMutex
	subs map[string]map[uint64]struct{}
}

func NewSubscriptionIndex() *SubscriptionIndex {
	return &SubscriptionIndex{subs: make(map[string]map[uint64]struct{})}
}

// Subscribe adds a session to a pubkey's subscriber set. Idempotent; reports
// whether the entry was newly added.
func (i *SubscriptionIndex) Subscribe(pubkey string, sessionID uint64) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	set, ok := i.subs[pubkey]
	if !ok {
		set = make(map[uint64]struct{})
		i.subs[pubkey] = set
	}
	if _, exists := set[sessionID]; exists {
		return false
	}
	set[sessionID] = struct{}{}
	return true
}

// Unsubscribe removes a session from a pubkey's subscriber set. A no-op for
// non-members; reports whether an entry was removed.
func (i *SubscriptionIndex) Unsubscribe(pubkey string, sessionID uint64) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	set, ok := i.subs[pubkey]
	if !ok {
		return false
	}
	if _, exists := set[sessionID]; !exists {
		return false
	}
	delete(set, sessionID)
	if len(set) == 0 {
		delete(i.subs, pubkey)
	}
	return true
}

// SubscribersOf returns a snapshot of the sessions subscribed to a pubkey.
func (i *SubscriptionIndex) SubscribersOf(pubkey string) []uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()

	set, ok := i.subs[pubkey]
	if !ok {
		return nil
	}
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// RemoveSession removes a session from every pubkey it is subscribed to and
// reports how many entries were removed. Idempotent.
func (i *SubscriptionIndex) RemoveSession(sessionID uint64) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for pubkey, set := range i.subs {
		if _, exists := set[sessionID]; !exists {
			continue
		}
		delete(set, sessionID)
		removed++
		if len(set) == 0 {
			delete(i.subs, pubkey)
		}
	}
	return removed
}
