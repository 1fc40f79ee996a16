package domain

import (
	"encoding/json"
	"fmt"
)

// AccountData is the decoded payload of an account update, one concrete type
// per shape the upstream decoder produces. The interface is sealed so the
// variant set stays closed to this package.
type AccountData interface {
	isAccountData()
}

type PoolAccount struct {
	Fields json.RawMessage
}

type PositionAccount struct {
	Fields json.RawMessage
}

type ConfigAccount struct {
	Fields json.RawMessage
}

type ClaimFeeOperatorAccount struct {
	Fields json.RawMessage
}

type TokenBadgeAccount struct {
	Fields json.RawMessage
}

type VestingAccount struct {
	Fields json.RawMessage
}

func (PoolAccount) isAccountData()             {}
func (PositionAccount) isAccountData()         {}
func (ConfigAccount) isAccountData()           {}
func (ClaimFeeOperatorAccount) isAccountData() {}
func (TokenBadgeAccount) isAccountData()       {}
func (VestingAccount) isAccountData()          {}

// DecodedUpdate is one account observation as delivered by the external
// decoder: already classified into a typed payload, not yet persisted.
type DecodedUpdate struct {
	Pubkey   string
	Slot     int64
	Owner    string
	Lamports int64
	Data     AccountData
}

// Classify maps a decoded payload to its account_type tag and opaque JSON
// document. The switch covers the full variant set; a payload of any other
// dynamic type is a hard error for that update.
func Classify(data AccountData) (string, json.RawMessage, error) {
	switch d := data.(type) {
	case PoolAccount:
		return "Pool", emptyIfNil(d.Fields), nil
	case PositionAccount:
		return "Position", emptyIfNil(d.Fields), nil
	case ConfigAccount:
		return "Config", emptyIfNil(d.Fields), nil
	case ClaimFeeOperatorAccount:
		return "ClaimFeeOperator", emptyIfNil(d.Fields), nil
	case TokenBadgeAccount:
		return "TokenBadge", emptyIfNil(d.Fields), nil
	case VestingAccount:
		return "Vesting", emptyIfNil(d.Fields), nil
	default:
		return "", nil, fmt.Errorf("%w: %T", ErrUnknownAccountType, data)
	}
}

func emptyIfNil(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return json.RawMessage("{}")
	}
	return raw
}
