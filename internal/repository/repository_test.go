// Package repository provides data access layer implementations.
// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	err = runMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runMigrations applies the database schema
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT PRIMARY KEY,
			vip_status BOOLEAN NOT NULL DEFAULT FALSE,
			bp_balance BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS completions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			activity_id VARCHAR(64) NOT NULL,
			activity_day VARCHAR(10) NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMPTZ,
			awarded_points BIGINT NOT NULL DEFAULT 0,
			UNIQUE (user_id, activity_id, activity_day)
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS settings (
			key VARCHAR(64) PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dashboard_locations (
			user_id BIGINT PRIMARY KEY,
			channel_id BIGINT NOT NULL,
			message_id BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository_GetAbsentUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	// Absent users read as default accounts, not errors
	user, err := repo.Get(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), user.UserID)
	assert.False(t, user.VIPStatus)
	assert.Equal(t, int64(0), user.BPBalance)
}

func TestUserRepository_SetVIPStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	// Setting VIP on an absent user creates the row
	err := repo.SetVIPStatus(ctx, 12345, true)
	require.NoError(t, err)

	vip, err := repo.GetVIPStatus(ctx, 12345)
	require.NoError(t, err)
	assert.True(t, vip)

	// Toggling off preserves the balance
	err = repo.SetBalance(ctx, 12345, 42)
	require.NoError(t, err)
	err = repo.SetVIPStatus(ctx, 12345, false)
	require.NoError(t, err)

	user, err := repo.Get(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, user.VIPStatus)
	assert.Equal(t, int64(42), user.BPBalance)
}

func TestUserRepository_SetBalance(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	err := repo.SetBalance(ctx, 12345, 100)
	require.NoError(t, err)

	balance, err := repo.GetBalance(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	// Negative balances are allowed
	err = repo.SetBalance(ctx, 12345, -5)
	require.NoError(t, err)

	balance, err = repo.GetBalance(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), balance)
}

func TestUserRepository_AddBalance(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	// Adding to an absent user starts from 0
	balance, err := repo.AddBalance(ctx, 12345, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	balance, err = repo.AddBalance(ctx, 12345, -15)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), balance)
}

// ============================================================================
// CompletionRepository Tests
// ============================================================================

func TestCompletionRepository_GetAbsentRecord(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCompletionRepository(pool)
	ctx := context.Background()

	c, err := repo.Get(ctx, 12345, "browser", "2026-08-28")
	require.NoError(t, err)
	assert.False(t, c.Completed)
	assert.Nil(t, c.CompletedAt)
	assert.Equal(t, int64(0), c.AwardedPoints)
}

func TestCompletionRepository_SetStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCompletionRepository(pool)
	ctx := context.Background()

	err := repo.SetStatus(ctx, 12345, "browser", "2026-08-28", true, 2)
	require.NoError(t, err)

	c, err := repo.Get(ctx, 12345, "browser", "2026-08-28")
	require.NoError(t, err)
	assert.True(t, c.Completed)
	require.NotNil(t, c.CompletedAt)
	assert.Equal(t, int64(2), c.AwardedPoints)

	// Uncompleting clears the timestamp and the stored award
	err = repo.SetStatus(ctx, 12345, "browser", "2026-08-28", false, 999)
	require.NoError(t, err)

	c, err = repo.Get(ctx, 12345, "browser", "2026-08-28")
	require.NoError(t, err)
	assert.False(t, c.Completed)
	assert.Nil(t, c.CompletedAt)
	assert.Equal(t, int64(0), c.AwardedPoints)
}

func TestCompletionRepository_UpsertIsIdempotentOnKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCompletionRepository(pool)
	ctx := context.Background()

	// Repeated writes to the same key never create a second row
	for i := 0; i < 3; i++ {
		err := repo.SetStatus(ctx, 12345, "browser", "2026-08-28", true, 2)
		require.NoError(t, err)
	}

	var count int
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM completions
		WHERE user_id = $1 AND activity_id = $2 AND activity_day = $3
	`, int64(12345), "browser", "2026-08-28").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCompletionRepository_CompletedForDayOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCompletionRepository(pool)
	ctx := context.Background()

	// Stamp distinct completion times directly to control ordering
	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"browser", "meal", "walk"} {
		_, err := pool.Exec(ctx, `
			INSERT INTO completions (user_id, activity_id, activity_day, completed, completed_at, awarded_points)
			VALUES ($1, $2, $3, TRUE, $4, 1)
		`, int64(12345), id, "2026-08-28", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	completed, err := repo.CompletedForDay(ctx, 12345, "2026-08-28")
	require.NoError(t, err)
	require.Len(t, completed, 3)

	// Most recently completed first
	assert.Equal(t, "walk", completed[0].ActivityID)
	assert.Equal(t, "meal", completed[1].ActivityID)
	assert.Equal(t, "browser", completed[2].ActivityID)
}

func TestCompletionRepository_ResetDay(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCompletionRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.SetStatus(ctx, 1, "browser", "2026-08-28", true, 1))
	require.NoError(t, repo.SetStatus(ctx, 2, "meal", "2026-08-28", true, 2))
	require.NoError(t, repo.SetStatus(ctx, 1, "walk", "2026-08-27", true, 1))

	count, err := repo.ResetDay(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// The other day's row is untouched
	c, err := repo.Get(ctx, 1, "walk", "2026-08-27")
	require.NoError(t, err)
	assert.True(t, c.Completed)

	// Resetting again is a no-op
	count, err = repo.ResetDay(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCompletionRepository_DeleteOlderThan(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCompletionRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.SetStatus(ctx, 1, "browser", "2026-07-01", true, 1))
	require.NoError(t, repo.SetStatus(ctx, 1, "meal", "2026-07-28", true, 2))
	require.NoError(t, repo.SetStatus(ctx, 1, "walk", "2026-08-28", true, 1))

	count, err := repo.DeleteOlderThan(ctx, "2026-07-28")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The cutoff day itself is kept
	c, err := repo.Get(ctx, 1, "meal", "2026-07-28")
	require.NoError(t, err)
	assert.True(t, c.Completed)
}

// ============================================================================
// ApplyToggle Tests
// ============================================================================

func TestApplyToggle_RoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	completionRepo := NewCompletionRepository(pool)
	userRepo := NewUserRepository(pool)
	ctx := context.Background()

	// Complete: awards 2 BP
	balance, err := completionRepo.ApplyToggle(ctx, 12345, "browser", "2026-08-28", true, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance)

	c, err := completionRepo.Get(ctx, 12345, "browser", "2026-08-28")
	require.NoError(t, err)
	assert.True(t, c.Completed)
	assert.Equal(t, int64(2), c.AwardedPoints)

	// Uncomplete: subtracts the stored award exactly
	balance, err = completionRepo.ApplyToggle(ctx, 12345, "browser", "2026-08-28", false, 0, -c.AwardedPoints)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	stored, err := userRepo.GetBalance(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored)
}

func TestApplyToggle_CreatesUserRow(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	completionRepo := NewCompletionRepository(pool)
	ctx := context.Background()

	// First toggle for an unseen user creates both rows atomically
	balance, err := completionRepo.ApplyToggle(ctx, 99999, "meal", "2026-08-28", true, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), balance)

	var userCount int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE user_id = $1`, int64(99999)).Scan(&userCount)
	require.NoError(t, err)
	assert.Equal(t, 1, userCount)
}

// ============================================================================
// SettingRepository Tests
// ============================================================================

func TestSettingRepository_GetDefault(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingRepository(pool)
	ctx := context.Background()

	value, err := repo.Get(ctx, "double_bp_event", "false")
	require.NoError(t, err)
	assert.Equal(t, "false", value)
}

func TestSettingRepository_SetAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "double_bp_event", "true"))

	value, err := repo.Get(ctx, "double_bp_event", "false")
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	// Upsert overwrites
	require.NoError(t, repo.Set(ctx, "double_bp_event", "false"))

	value, err = repo.Get(ctx, "double_bp_event", "true")
	require.NoError(t, err)
	assert.Equal(t, "false", value)
}

// ============================================================================
// DashboardRepository Tests
// ============================================================================

func TestDashboardRepository_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDashboardRepository(pool)
	ctx := context.Background()

	_, err := repo.Get(ctx, 12345)
	assert.ErrorIs(t, err, ErrDashboardNotFound)
}

func TestDashboardRepository_SingleRowPerUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDashboardRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, 12345, 100, 1))
	require.NoError(t, repo.Save(ctx, 12345, 100, 2))
	require.NoError(t, repo.Save(ctx, 12345, 200, 3))

	// Replacement never accumulates rows
	var count int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM dashboard_locations WHERE user_id = $1`, int64(12345)).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	loc, err := repo.Get(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(200), loc.ChannelID)
	assert.Equal(t, int64(3), loc.MessageID)
}

func TestDashboardRepository_SaveKeepsCreatedAt(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDashboardRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, 12345, 100, 1))

	first, err := repo.Get(ctx, 12345)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, repo.Save(ctx, 12345, 100, 2))

	second, err := repo.Get(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.LastUpdatedAt.After(first.LastUpdatedAt))
}

func TestDashboardRepository_DeleteAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDashboardRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, 2, 100, 20))
	require.NoError(t, repo.Save(ctx, 1, 100, 10))
	require.NoError(t, repo.Save(ctx, 3, 100, 30))

	locations, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 3)
	assert.Equal(t, int64(1), locations[0].UserID)
	assert.Equal(t, int64(3), locations[2].UserID)

	require.NoError(t, repo.Delete(ctx, 2))

	locations, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)

	// Deleting an absent row is not an error
	require.NoError(t, repo.Delete(ctx, 2))
}
