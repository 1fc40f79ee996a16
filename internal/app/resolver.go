package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/pratikbuilds/account-socket/internal/metrics"
)

// writebackTimeout bounds the asynchronous cache repopulation after a
// database hit.
const writebackTimeout = 5 * time.Second

// Resolver answers current-state queries with the cache-aside pattern:
// cache first, database on miss, best-effort asynchronous repopulation.
type Resolver struct {
	store domain.AccountStore
	cache domain.AccountCache
}

func NewResolver(store domain.AccountStore, cache domain.AccountCache) *Resolver {
	return &Resolver{store: store, cache: cache}
}

var _ domain.StateResolver = (*Resolver)(nil)

// Resolve returns the latest known state for a pubkey and the tier that
// answered. Cache errors are treated as a miss; store errors degrade to
// absence. Both tiers empty yields domain.ErrAccountNotFound.
func (r *Resolver) Resolve(ctx context.Context, pubkey string) (*domain.AccountUpdate, domain.Source, error) {
	account, err := r.cache.GetAccount(ctx, pubkey)
	if err == nil {
		metrics.ResolveTotal.WithLabelValues(string(domain.SourceCache)).Inc()
		return account, domain.SourceCache, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		slog.WarnContext(ctx, "Cache lookup failed, falling through to database", "pubkey", pubkey, "error", err)
	}

	account, err = r.store.GetLatestAccountState(ctx, pubkey)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			slog.ErrorContext(ctx, "Database lookup failed during resolve", "pubkey", pubkey, "error", err)
		}
		metrics.ResolveTotal.WithLabelValues("none").Inc()
		return nil, "", domain.ErrAccountNotFound
	}

	// Repopulate the cache off the read path. A failed write-back degrades
	// to a cache miss next time, never to a resolve failure.
	go func(account *domain.AccountUpdate) {
		ctx, cancel := context.WithTimeout(context.Background(), writebackTimeout)
		defer cancel()
		if err := r.cache.SetAccount(ctx, pubkey, account); err != nil {
			metrics.CacheWritebackFailures.Inc()
			slog.Warn("Failed to repopulate cache after database hit", "pubkey", pubkey, "error", err)
		}
	}(account)

	metrics.ResolveTotal.WithLabelValues(string(domain.SourceDatabase)).Inc()
	return account, domain.SourceDatabase, nil
}
