// Package ws implements the websocket subscription protocol and fan-out.
//
// The Hub owns the SubscriptionIndex (pubkey -> subscriber sessions) and the
// Registry (session -> bounded mailbox). Each connection runs a read loop
// (subscribe/unsubscribe requests, immediate snapshot via the resolver) and a
// write loop (mailbox drain + ping keepalive); the first loop to exit ends the
// session and cleanup runs exactly once. Broadcast delivery is at-most-once
// per subscriber with per-session FIFO ordering.
package ws
