package domain

import (
	"context"
	"time"
)

// AccountStore is the durable append-only record of account updates.
type AccountStore interface {
	InsertAccountUpdate(ctx context.Context, update NewAccountUpdate) (*AccountUpdate, error)
	// GetLatestAccountState returns the update with the greatest slot for a
	// pubkey, or ErrAccountNotFound if none was ever inserted.
	GetLatestAccountState(ctx context.Context, pubkey string) (*AccountUpdate, error)
}

// AccountCache is the fast key-value tier in front of the store.
type AccountCache interface {
	// GetAccount returns ErrAccountNotFound on a miss.
	GetAccount(ctx context.Context, pubkey string) (*AccountUpdate, error)
	SetAccount(ctx context.Context, pubkey string, account *AccountUpdate) error
	DeleteAccount(ctx context.Context, pubkey string) (bool, error)
	ExistsAccount(ctx context.Context, pubkey string) (bool, error)
	AccountTTL(ctx context.Context, pubkey string) (time.Duration, error)
}

// Broadcaster fans an account update out to the sessions subscribed to its
// pubkey. Best-effort: delivery failures never surface to the caller.
type Broadcaster interface {
	BroadcastAccountUpdate(pubkey string, account *AccountUpdate)
}

// StateResolver answers current-state queries, reporting which tier answered.
type StateResolver interface {
	Resolve(ctx context.Context, pubkey string) (*AccountUpdate, Source, error)
}
