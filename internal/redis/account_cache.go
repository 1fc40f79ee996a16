package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pratikbuilds/account-socket/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// accountTTL is the fixed expiry window for cached account state.
const accountTTL = 3600 * time.Second

// AccountCache stores the latest account state per pubkey as JSON under
// "account:<pubkey>" with a fixed TTL. An expired entry is a plain miss.
type AccountCache struct {
	rdb *goredis.Client
}

func NewAccountCache(rdb *goredis.Client) *AccountCache {
	return &AccountCache{rdb: rdb}
}

var _ domain.AccountCache = (*AccountCache)(nil)

func (c *AccountCache) GetAccount(ctx context.Context, pubkey string) (*domain.AccountUpdate, error) {
	data, err := c.rdb.Get(ctx, accountKey(pubkey)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached account: %w", err)
	}

	var account domain.AccountUpdate
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached account: %w", err)
	}
	return &account, nil
}

func (c *AccountCache) SetAccount(ctx context.Context, pubkey string, account *domain.AccountUpdate) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, accountKey(pubkey), data, accountTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache account: %w", err)
	}
	return nil
}

func (c *AccountCache) DeleteAccount(ctx context.Context, pubkey string) (bool, error) {
	deleted, err := c.rdb.Del(ctx, accountKey(pubkey)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete cached account: %w", err)
	}
	return deleted > 0, nil
}

func (c *AccountCache) ExistsAccount(ctx context.Context, pubkey string) (bool, error) {
	n, err := c.rdb.Exists(ctx, accountKey(pubkey)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cached account: %w", err)
	}
	return n > 0, nil
}

func (c *AccountCache) AccountTTL(ctx context.Context, pubkey string) (time.Duration, error) {
	ttl, err := c.rdb.TTL(ctx, accountKey(pubkey)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get cached account TTL: %w", err)
	}
	return ttl, nil
}

func accountKey(pubkey string) string {
	return "account:" + pubkey
}
