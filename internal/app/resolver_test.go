package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUpdate(pubkey string, slot int64) *domain.AccountUpdate {
	return &domain.AccountUpdate{
		ID:          1,
		Pubkey:      pubkey,
		Slot:        slot,
		AccountType: "Pool",
		Owner:       "owner1",
		Lamports:    500,
		DataJSON:    json.RawMessage(`{}`),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestResolver_CacheHit(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	cache.entries["P1"] = testUpdate("P1", 10)

	resolver := NewResolver(store, cache)
	account, source, err := resolver.Resolve(context.Background(), "P1")

	require.NoError(t, err)
	assert.Equal(t, domain.SourceCache, source)
	assert.Equal(t, int64(10), account.Slot)
	assert.Equal(t, 0, store.reads, "store must not be consulted on a cache hit")
}

func TestResolver_CacheMissDatabaseHitRepopulates(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	_, err := store.InsertAccountUpdate(context.Background(), domain.NewAccountUpdate{
		Pubkey: "P1", Slot: 10, AccountType: "Pool", Owner: "O", Lamports: 500, DataJSON: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	resolver := NewResolver(store, cache)
	account, source, err := resolver.Resolve(context.Background(), "P1")

	require.NoError(t, err)
	assert.Equal(t, domain.SourceDatabase, source)
	assert.Equal(t, int64(10), account.Slot)

	// Write-back is asynchronous
	require.True(t, waitFor(time.Second, func() bool { return cache.get("P1") != nil }))
	assert.Equal(t, int64(10), cache.get("P1").Slot)
}

func TestResolver_BothTiersMiss(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()

	resolver := NewResolver(store, cache)
	_, _, err := resolver.Resolve(context.Background(), "never-seen")

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	// A full miss must not mutate either tier.
	assert.Equal(t, 0, cache.setCount())
	assert.Equal(t, 0, store.inserts)
}

func TestResolver_CacheErrorTreatedAsMiss(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	_, err := store.InsertAccountUpdate(context.Background(), domain.NewAccountUpdate{
		Pubkey: "P1", Slot: 7, AccountType: "Pool", Owner: "O", Lamports: 1, DataJSON: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	resolver := NewResolver(store, cache)
	account, source, err := resolver.Resolve(context.Background(), "P1")

	require.NoError(t, err)
	assert.Equal(t, domain.SourceDatabase, source)
	assert.Equal(t, int64(7), account.Slot)
}

func TestResolver_StoreErrorDegradesToAbsence(t *testing.T) {
	store := newFakeStore()
	store.latestErr = errors.New("database down")
	cache := newFakeCache()

	resolver := NewResolver(store, cache)
	_, _, err := resolver.Resolve(context.Background(), "P1")

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestResolver_WritebackFailureDoesNotFailRead(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	cache.setErr = errors.New("cache down")
	_, err := store.InsertAccountUpdate(context.Background(), domain.NewAccountUpdate{
		Pubkey: "P1", Slot: 3, AccountType: "Pool", Owner: "O", Lamports: 1, DataJSON: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	resolver := NewResolver(store, cache)
	account, source, err := resolver.Resolve(context.Background(), "P1")

	require.NoError(t, err)
	assert.Equal(t, domain.SourceDatabase, source)
	assert.Equal(t, int64(3), account.Slot)

	// The failed write-back happens but never surfaces.
	require.True(t, waitFor(time.Second, func() bool { return cache.setCount() == 1 }))
}

func TestResolver_LatestSlotWins(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	for _, slot := range []int64{10, 11} {
		_, err := store.InsertAccountUpdate(context.Background(), domain.NewAccountUpdate{
			Pubkey: "P1", Slot: slot, AccountType: "Pool", Owner: "O", Lamports: 500, DataJSON: json.RawMessage(`{}`),
		})
		require.NoError(t, err)
	}

	resolver := NewResolver(store, cache)
	account, _, err := resolver.Resolve(context.Background(), "P1")

	require.NoError(t, err)
	assert.Equal(t, int64(11), account.Slot)
}
