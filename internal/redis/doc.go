// Package redis implements the Redis-backed account cache.
//
// AccountCache keeps the latest account state per pubkey under "account:<pubkey>"
// with a fixed one-hour TTL. The client is instrumented with a Prometheus metrics
// hook and a circuit breaker hook.
package redis
