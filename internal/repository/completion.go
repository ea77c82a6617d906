package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bonus-points-bot/internal/model"
)

// CompletionRepository handles per-(user, activity, activity-day) completion
// records. At most one row exists per key; writes are upserts.
type CompletionRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionRepository creates a new CompletionRepository instance.
func NewCompletionRepository(pool *pgxpool.Pool) *CompletionRepository {
	return &CompletionRepository{pool: pool}
}

// Get retrieves a completion record. An absent row reads as a not-completed
// record for the key.
func (r *CompletionRepository) Get(ctx context.Context, userID int64, activityID, activityDay string) (*model.Completion, error) {
	const query = `
		SELECT user_id, activity_id, activity_day, completed, completed_at, awarded_points
		FROM completions
		WHERE user_id = $1 AND activity_id = $2 AND activity_day = $3
	`

	var c model.Completion
	err := r.pool.QueryRow(ctx, query, userID, activityID, activityDay).Scan(
		&c.UserID,
		&c.ActivityID,
		&c.ActivityDay,
		&c.Completed,
		&c.CompletedAt,
		&c.AwardedPoints,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.Completion{
				UserID:      userID,
				ActivityID:  activityID,
				ActivityDay: activityDay,
			}, nil
		}
		return nil, fmt.Errorf("failed to get completion: %w", err)
	}

	return &c, nil
}

// SetStatus upserts a completion record. Completing stamps completed_at and
// records the awarded amount; uncompleting clears both. The statement is
// content-idempotent: repeating it with the same arguments leaves the row
// unchanged except for the timestamp refresh on re-completion.
func (r *CompletionRepository) SetStatus(ctx context.Context, userID int64, activityID, activityDay string, completed bool, awardedPoints int64) error {
	const query = `
		INSERT INTO completions (user_id, activity_id, activity_day, completed, completed_at, awarded_points)
		VALUES ($1, $2, $3, $4, CASE WHEN $4 THEN NOW() END, $5)
		ON CONFLICT (user_id, activity_id, activity_day) DO UPDATE SET
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at,
			awarded_points = EXCLUDED.awarded_points
	`

	if !completed {
		awardedPoints = 0
	}
	if _, err := r.pool.Exec(ctx, query, userID, activityID, activityDay, completed, awardedPoints); err != nil {
		return fmt.Errorf("failed to set completion status: %w", err)
	}
	return nil
}

// CompletedForDay retrieves a user's completed records for one activity day,
// most recently completed first. This is the single batch read used by
// rendering and the /total summary.
func (r *CompletionRepository) CompletedForDay(ctx context.Context, userID int64, activityDay string) ([]*model.Completion, error) {
	const query = `
		SELECT user_id, activity_id, activity_day, completed, completed_at, awarded_points
		FROM completions
		WHERE user_id = $1 AND activity_day = $2 AND completed
		ORDER BY completed_at DESC NULLS LAST
	`

	rows, err := r.pool.Query(ctx, query, userID, activityDay)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed activities: %w", err)
	}
	defer rows.Close()

	var completions []*model.Completion
	for rows.Next() {
		var c model.Completion
		err := rows.Scan(
			&c.UserID,
			&c.ActivityID,
			&c.ActivityDay,
			&c.Completed,
			&c.CompletedAt,
			&c.AwardedPoints,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completions: %w", err)
	}

	return completions, nil
}

// ResetDay bulk-clears all completed rows for one activity day and returns
// the number of rows reset. Run by the daily scheduler at the reset instant.
func (r *CompletionRepository) ResetDay(ctx context.Context, activityDay string) (int64, error) {
	const query = `
		UPDATE completions
		SET completed = FALSE, completed_at = NULL, awarded_points = 0
		WHERE activity_day = $1 AND completed
	`

	result, err := r.pool.Exec(ctx, query, activityDay)
	if err != nil {
		return 0, fmt.Errorf("failed to reset day: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteOlderThan prunes completion rows whose activity day is strictly
// before cutoffDay and returns the number deleted. Activity-day keys sort
// lexicographically in date order.
func (r *CompletionRepository) DeleteOlderThan(ctx context.Context, cutoffDay string) (int64, error) {
	const query = `DELETE FROM completions WHERE activity_day < $1`

	result, err := r.pool.Exec(ctx, query, cutoffDay)
	if err != nil {
		return 0, fmt.Errorf("failed to prune completions: %w", err)
	}
	return result.RowsAffected(), nil
}
