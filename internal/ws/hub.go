package ws

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/pratikbuilds/account-socket/internal/metrics"
)

// Hub owns the subscription index and the session registry, and fans account
// updates out to subscribed sessions. Delivery is at-most-once per subscriber:
// a full or missing mailbox drops the envelope and never blocks a publisher.
type Hub struct {
	index    *SubscriptionIndex
	registry *Registry
	resolver domain.StateResolver
	clock    clockwork.Clock
}

func NewHub(resolver domain.StateResolver, clock clockwork.Clock) *Hub {
	return &Hub{
		index:    NewSubscriptionIndex(),
		registry: NewRegistry(),
		resolver: resolver,
		clock:    clock,
	}
}

var _ domain.Broadcaster = (*Hub)(nil)

// BroadcastAccountUpdate enqueues a realtime envelope to every session
// subscribed to the pubkey. Failures are independent per recipient.
func (h *Hub) BroadcastAccountUpdate(pubkey string, account *domain.AccountUpdate) {
	ids := h.index.SubscribersOf(pubkey)
	if len(ids) == 0 {
		return
	}

	msg := AccountUpdateMessage{Pubkey: pubkey, Account: account, Source: domain.SourceRealtime}
	for _, id := range ids {
		ch, ok := h.registry.ChannelOf(id)
		if !ok {
			// Session disconnected between the index snapshot and now.
			metrics.EnvelopesDropped.Inc()
			slog.Debug("Subscriber gone during broadcast", "session_id", id, "pubkey", pubkey)
			continue
		}
		h.trySend(id, ch, msg)
	}
}

// handleRequest applies one parsed subscription request for a session.
func (h *Hub) handleRequest(ctx context.Context, sessionID uint64, req SubscriptionRequest) {
	switch req.Action {
	case "subscribe":
		if h.index.Subscribe(req.Pubkey, sessionID) {
			metrics.ActiveSubscriptions.Inc()
		}
		slog.InfoContext(ctx, "Session subscribed", "session_id", sessionID, "pubkey", req.Pubkey)
		h.sendSnapshot(ctx, sessionID, req.Pubkey)
	case "unsubscribe":
		if h.index.Unsubscribe(req.Pubkey, sessionID) {
			metrics.ActiveSubscriptions.Dec()
		}
		slog.InfoContext(ctx, "Session unsubscribed", "session_id", sessionID, "pubkey", req.Pubkey)
	default:
		slog.WarnContext(ctx, "Unknown subscription action", "session_id", sessionID, "action", req.Action)
	}
}

// sendSnapshot delivers the current state for a pubkey to one session only.
// Absence is not an error: a never-seen pubkey simply produces no envelope.
func (h *Hub) sendSnapshot(ctx context.Context, sessionID uint64, pubkey string) {
	account, source, err := h.resolver.Resolve(ctx, pubkey)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			slog.WarnContext(ctx, "Failed to resolve state for new subscription", "session_id", sessionID, "pubkey", pubkey, "error", err)
		}
		return
	}

	ch, ok := h.registry.ChannelOf(sessionID)
	if !ok {
		return
	}
	h.trySend(sessionID, ch, AccountUpdateMessage{Pubkey: pubkey, Account: account, Source: source})
}

// trySend enqueues without blocking; a full mailbox drops the envelope.
func (h *Hub) trySend(sessionID uint64, ch chan AccountUpdateMessage, msg AccountUpdateMessage) {
	select {
	case ch <- msg:
		metrics.EnvelopesDelivered.WithLabelValues(string(msg.Source)).Inc()
	default:
		metrics.EnvelopesDropped.Inc()
		slog.Warn("Session mailbox full, dropping envelope", "session_id", sessionID, "pubkey", msg.Pubkey, "source", msg.Source)
	}
}

// detach removes a session from the registry and from every subscriber set.
// Safe to call more than once.
func (h *Hub) detach(sessionID uint64) {
	h.registry.Unregister(sessionID)
	removed := h.index.RemoveSession(sessionID)
	metrics.ActiveSubscriptions.Sub(float64(removed))
}

// SubscriberCount returns how many sessions are subscribed to a pubkey.
func (h *Hub) SubscriberCount(pubkey string) int {
	return len(h.index.SubscribersOf(pubkey))
}

// SessionCount returns how many sessions are currently registered.
func (h *Hub) SessionCount() int {
	return h.registry.Len()
}
