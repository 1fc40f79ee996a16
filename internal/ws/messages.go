package ws

import (
	"github.com/pratikbuilds/account-socket/internal/domain"
)

// SubscriptionRequest is the inbound client message.
// action is "subscribe" or "unsubscribe".
type SubscriptionRequest struct {
	Action string `json:"action"`
	Pubkey string `json:"pubkey"`
}

// AccountUpdateMessage is the outbound envelope delivered to subscribers.
type AccountUpdateMessage struct {
	Pubkey  string                `json:"pubkey"`
	Account *domain.AccountUpdate `json:"account"`
	Source  domain.Source         `json:"source"`
}
