// Package app holds the application services: the cache-aside Resolver for
// current-state queries and the ingestion Processor that persists, caches,
// and broadcasts each decoded update.
package app
