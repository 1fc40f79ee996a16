// Package domain holds the core types and interfaces shared across the service.
//
// AccountUpdate is the persisted record, AccountData the sealed decoded-payload
// union, and the gateway interfaces (AccountStore, AccountCache, Broadcaster,
// StateResolver) decouple the websocket and ingestion layers from Postgres and Redis.
package domain
