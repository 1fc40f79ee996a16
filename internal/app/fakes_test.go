package app

import (
	"context"
	"sync"
	"time"

	"github.com/pratikbuilds/account-socket/internal/domain"
)

type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[string][]*domain.AccountUpdate
	inserts int
	reads   int

	insertErr error
	latestErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string][]*domain.AccountUpdate)}
}

func (s *fakeStore) InsertAccountUpdate(_ context.Context, update domain.NewAccountUpdate) (*domain.AccountUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.nextID++
	stored := &domain.AccountUpdate{
		ID:          s.nextID,
		Pubkey:      update.Pubkey,
		Slot:        update.Slot,
		AccountType: update.AccountType,
		Owner:       update.Owner,
		Lamports:    update.Lamports,
		DataJSON:    update.DataJSON,
		CreatedAt:   time.Now().UTC(),
	}
	s.rows[update.Pubkey] = append(s.rows[update.Pubkey], stored)
	return stored, nil
}

func (s *fakeStore) GetLatestAccountState(_ context.Context, pubkey string) (*domain.AccountUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.latestErr != nil {
		return nil, s.latestErr
	}
	updates := s.rows[pubkey]
	if len(updates) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	latest := updates[0]
	for _, u := range updates[1:] {
		if u.Slot >= latest.Slot {
			latest = u
		}
	}
	return latest, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.AccountUpdate
	sets    int
	gets    int

	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.AccountUpdate)}
}

func (c *fakeCache) GetAccount(_ context.Context, pubkey string) (*domain.AccountUpdate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	account, ok := c.entries[pubkey]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (c *fakeCache) SetAccount(_ context.Context, pubkey string, account *domain.AccountUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[pubkey] = account
	return nil
}

func (c *fakeCache) DeleteAccount(_ context.Context, pubkey string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[pubkey]
	delete(c.entries, pubkey)
	return ok, nil
}

func (c *fakeCache) ExistsAccount(_ context.Context, pubkey string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[pubkey]
	return ok, nil
}

func (c *fakeCache) AccountTTL(_ context.Context, _ string) (time.Duration, error) {
	return time.Hour, nil
}

func (c *fakeCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func (c *fakeCache) get(pubkey string) *domain.AccountUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[pubkey]
}

type broadcastCall struct {
	pubkey  string
	account *domain.AccountUpdate
}

type fakeBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (b *fakeBroadcaster) BroadcastAccountUpdate(pubkey string, account *domain.AccountUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{pubkey: pubkey, account: account})
}

func (b *fakeBroadcaster) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

// waitFor polls cond until it holds or the timeout elapses.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
