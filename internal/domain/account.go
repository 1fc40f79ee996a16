package domain

import (
	"encoding/json"
	"time"
)

// Source names the tier that answered a current-state query.
type Source string

const (
	SourceCache    Source = "cache"
	SourceDatabase Source = "database"
	SourceRealtime Source = "realtime"
)

// AccountUpdate is one persisted observation of an account's decoded state.
// Immutable once created; id and created_at are assigned by the store on insert.
type AccountUpdate struct {
	ID          int64           `json:"id"`
	Pubkey      string          `json:"pubkey"`
	Slot        int64           `json:"slot"`
	AccountType string          `json:"account_type"`
	Owner       string          `json:"owner"`
	Lamports    int64           `json:"lamports"`
	DataJSON    json.RawMessage `json:"data_json"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewAccountUpdate is an insert candidate built by the ingestion pipeline.
type NewAccountUpdate struct {
	Pubkey      string
	Slot        int64
	AccountType string
	Owner       string
	Lamports    int64
	DataJSON    json.RawMessage
}
