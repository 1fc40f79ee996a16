// Package server implements the HTTP server using the Echo framework.
//
// Routes: /ws (websocket subscriptions), /accounts/:pubkey (current state),
// /health/live, /health/ready, /metrics, /version.
package server
