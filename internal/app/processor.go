package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/pratikbuilds/account-socket/internal/metrics"
)

// Processor is the ingestion orchestrator. For each decoded update it
// classifies the payload, persists it, refreshes the cache, and broadcasts,
// in that order. Nothing is cached or broadcast before it is durable.
type Processor struct {
	store       domain.AccountStore
	cache       domain.AccountCache
	broadcaster domain.Broadcaster
}

func NewProcessor(store domain.AccountStore, cache domain.AccountCache, broadcaster domain.Broadcaster) *Processor {
	return &Processor{store: store, cache: cache, broadcaster: broadcaster}
}

// Process handles one decoded update. A classification or store failure
// aborts that update only; a cache failure is logged and skipped.
func (p *Processor) Process(ctx context.Context, update domain.DecodedUpdate) error {
	start := time.Now()
	defer func() { metrics.IngestDuration.Observe(time.Since(start).Seconds()) }()

	accountType, payload, err := domain.Classify(update.Data)
	if err != nil {
		metrics.IngestTotal.WithLabelValues("unknown", "classify_error").Inc()
		slog.ErrorContext(ctx, "Failed to classify decoded update", "pubkey", update.Pubkey, "slot", update.Slot, "error", err)
		return fmt.Errorf("failed to classify update for %s: %w", update.Pubkey, err)
	}

	stored, err := p.store.InsertAccountUpdate(ctx, domain.NewAccountUpdate{
		Pubkey:      update.Pubkey,
		Slot:        update.Slot,
		AccountType: accountType,
		Owner:       update.Owner,
		Lamports:    update.Lamports,
		DataJSON:    payload,
	})
	if err != nil {
		metrics.IngestTotal.WithLabelValues(accountType, "store_error").Inc()
		slog.ErrorContext(ctx, "Failed to persist account update", "pubkey", update.Pubkey, "slot", update.Slot, "error", err)
		return fmt.Errorf("failed to persist update for %s: %w", update.Pubkey, err)
	}

	if err := p.cache.SetAccount(ctx, stored.Pubkey, stored); err != nil {
		slog.WarnContext(ctx, "Failed to cache account update", "pubkey", stored.Pubkey, "slot", stored.Slot, "error", err)
	}

	p.broadcaster.BroadcastAccountUpdate(stored.Pubkey, stored)

	metrics.IngestTotal.WithLabelValues(accountType, "success").Inc()
	return nil
}
