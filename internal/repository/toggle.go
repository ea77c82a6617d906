package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ApplyToggle writes a completion flip and its balance adjustment in one
// transaction, so a failure mid-way leaves no partial commit visible to other
// readers. Returns the user's new balance.
func (r *CompletionRepository) ApplyToggle(ctx context.Context, userID int64, activityID, activityDay string, completed bool, awardedPoints, balanceDelta int64) (int64, error) {
	const completionQuery = `
		INSERT INTO completions (user_id, activity_id, activity_day, completed, completed_at, awarded_points)
		VALUES ($1, $2, $3, $4, CASE WHEN $4 THEN NOW() END, $5)
		ON CONFLICT (user_id, activity_id, activity_day) DO UPDATE SET
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at,
			awarded_points = EXCLUDED.awarded_points
	`
	const balanceQuery = `
		INSERT INTO users (user_id, bp_balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET bp_balance = users.bp_balance + EXCLUDED.bp_balance
		RETURNING bp_balance
	`

	var balance int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, completionQuery, userID, activityID, activityDay, completed, awardedPoints); err != nil {
			return fmt.Errorf("failed to set completion status: %w", err)
		}
		if err := tx.QueryRow(ctx, balanceQuery, userID, balanceDelta).Scan(&balance); err != nil {
			return fmt.Errorf("failed to adjust balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to apply toggle: %w", err)
	}

	return balance, nil
}
