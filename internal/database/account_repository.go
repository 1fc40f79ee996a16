package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pratikbuilds/account-socket/internal/domain"
)

// AccountRepo is the Postgres-backed append-only record of account updates.
type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

var _ domain.AccountStore = (*AccountRepo)(nil)

func (r *AccountRepo) InsertAccountUpdate(ctx context.Context, update domain.NewAccountUpdate) (*domain.AccountUpdate, error) {
	var stored domain.AccountUpdate
	err := r.pool.QueryRow(ctx, `
		INSERT INTO account_updates (pubkey, slot, account_type, owner, lamports, data_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, pubkey, slot, account_type, owner, lamports, data_json, created_at
	`, update.Pubkey, update.Slot, update.AccountType, update.Owner, update.Lamports, update.DataJSON).Scan(
		&stored.ID, &stored.Pubkey, &stored.Slot, &stored.AccountType,
		&stored.Owner, &stored.Lamports, &stored.DataJSON, &stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert account update: %w", err)
	}
	return &stored, nil
}

func (r *AccountRepo) GetLatestAccountState(ctx context.Context, pubkey string) (*domain.AccountUpdate, error) {
	var stored domain.AccountUpdate
	err := r.pool.QueryRow(ctx, `
		SELECT id, pubkey, slot, account_type, owner, lamports, data_json, created_at
		FROM account_updates
		WHERE pubkey = $1
		ORDER BY slot DESC
		LIMIT 1
	`, pubkey).Scan(
		&stored.ID, &stored.Pubkey, &stored.Slot, &stored.AccountType,
		&stored.Owner, &stored.Lamports, &stored.DataJSON, &stored.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest account state: %w", err)
	}
	return &stored, nil
}
