// Package database implements the Postgres account-update store on pgx.
//
// AccountRepo exposes insert-returning-row and select-latest-by-pubkey
// (ordered by slot descending) over the account_updates table.
package database
