// Package repository provides data access layer implementations.
// All writes are single-statement upserts keyed by the entity's natural key,
// so interleaved single-field writes serialize in Postgres without torn rows.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bonus-points-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrDashboardNotFound = errors.New("dashboard location not found")
)

// UserRepository handles user VIP status and BP balance persistence.
// User rows are created lazily on first write; reads of absent users return
// zero values rather than errors.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Get retrieves a user's account state. Absent users read as a default
// account (no VIP, zero balance), matching the lazy-create model.
func (r *UserRepository) Get(ctx context.Context, userID int64) (*model.User, error) {
	const query = `
		SELECT user_id, vip_status, bp_balance
		FROM users
		WHERE user_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.VIPStatus,
		&user.BPBalance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.User{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetVIPStatus retrieves a user's VIP flag. Absent users are not VIP.
func (r *UserRepository) GetVIPStatus(ctx context.Context, userID int64) (bool, error) {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.VIPStatus, nil
}

// SetVIPStatus sets a user's VIP flag, creating the row if needed.
func (r *UserRepository) SetVIPStatus(ctx context.Context, userID int64, vip bool) error {
	const query = `
		INSERT INTO users (user_id, vip_status)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET vip_status = EXCLUDED.vip_status
	`

	if _, err := r.pool.Exec(ctx, query, userID, vip); err != nil {
		return fmt.Errorf("failed to set vip status: %w", err)
	}
	return nil
}

// GetBalance retrieves a user's BP balance. Absent users read as 0.
func (r *UserRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.BPBalance, nil
}

// SetBalance sets a user's BP balance to an exact value, creating the row if
// needed. Negative balances are allowed.
func (r *UserRepository) SetBalance(ctx context.Context, userID int64, balance int64) error {
	const query = `
		INSERT INTO users (user_id, bp_balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET bp_balance = EXCLUDED.bp_balance
	`

	if _, err := r.pool.Exec(ctx, query, userID, balance); err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return nil
}

// AddBalance adjusts a user's balance by amount (which may be negative) and
// returns the new balance. The arithmetic runs inside the upsert, so
// concurrent adjustments never lose updates.
func (r *UserRepository) AddBalance(ctx context.Context, userID int64, amount int64) (int64, error) {
	const query = `
		INSERT INTO users (user_id, bp_balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET bp_balance = users.bp_balance + EXCLUDED.bp_balance
		RETURNING bp_balance
	`

	var balance int64
	if err := r.pool.QueryRow(ctx, query, userID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to add balance: %w", err)
	}
	return balance, nil
}
