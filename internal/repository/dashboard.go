package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bonus-points-bot/internal/model"
)

// DashboardRepository persists the location of each user's live dashboard
// message. The user_id primary key enforces the at-most-one-row-per-user
// invariant at the storage level; replacing a dashboard is the same upsert.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository instance.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Save upserts the dashboard location for a user. On replacement the
// created_at of the original row is kept; last_updated_at always bumps.
func (r *DashboardRepository) Save(ctx context.Context, userID, channelID, messageID int64) error {
	const query = `
		INSERT INTO dashboard_locations (user_id, channel_id, message_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			message_id = EXCLUDED.message_id,
			last_updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, userID, channelID, messageID); err != nil {
		return fmt.Errorf("failed to save dashboard location: %w", err)
	}
	return nil
}

// Get retrieves a user's dashboard location.
// Returns ErrDashboardNotFound if the user has no tracked dashboard.
func (r *DashboardRepository) Get(ctx context.Context, userID int64) (*model.DashboardLocation, error) {
	const query = `
		SELECT user_id, channel_id, message_id, created_at, last_updated_at
		FROM dashboard_locations
		WHERE user_id = $1
	`

	var loc model.DashboardLocation
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&loc.UserID,
		&loc.ChannelID,
		&loc.MessageID,
		&loc.CreatedAt,
		&loc.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDashboardNotFound
		}
		return nil, fmt.Errorf("failed to get dashboard location: %w", err)
	}

	return &loc, nil
}

// Delete removes a user's dashboard location. Deleting an absent row is not
// an error.
func (r *DashboardRepository) Delete(ctx context.Context, userID int64) error {
	const query = `DELETE FROM dashboard_locations WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete dashboard location: %w", err)
	}
	return nil
}

// List retrieves every tracked dashboard location. The daily refresh iterates
// this, not the in-memory cache, so dashboards survive restarts.
func (r *DashboardRepository) List(ctx context.Context) ([]*model.DashboardLocation, error) {
	const query = `
		SELECT user_id, channel_id, message_id, created_at, last_updated_at
		FROM dashboard_locations
		ORDER BY user_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboard locations: %w", err)
	}
	defer rows.Close()

	var locations []*model.DashboardLocation
	for rows.Next() {
		var loc model.DashboardLocation
		err := rows.Scan(
			&loc.UserID,
			&loc.ChannelID,
			&loc.MessageID,
			&loc.CreatedAt,
			&loc.LastUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dashboard location: %w", err)
		}
		locations = append(locations, &loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboard locations: %w", err)
	}

	return locations, nil
}
