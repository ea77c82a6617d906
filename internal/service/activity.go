// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"bonus-points-bot/internal/catalog"
	"bonus-points-bot/internal/model"
	"bonus-points-bot/internal/points"
)

// Common errors for activity operations.
var (
	ErrActivityNotFound = errors.New("activity not found")
)

// UserStore is the user state consumed by the activity service.
type UserStore interface {
	Get(ctx context.Context, userID int64) (*model.User, error)
	SetVIPStatus(ctx context.Context, userID int64, vip bool) error
	SetBalance(ctx context.Context, userID int64, balance int64) error
}

// CompletionStore is the completion state consumed by the activity service.
type CompletionStore interface {
	Get(ctx context.Context, userID int64, activityID, activityDay string) (*model.Completion, error)
	CompletedForDay(ctx context.Context, userID int64, activityDay string) ([]*model.Completion, error)
	ApplyToggle(ctx context.Context, userID int64, activityID, activityDay string, completed bool, awardedPoints, balanceDelta int64) (int64, error)
	ResetDay(ctx context.Context, activityDay string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoffDay string) (int64, error)
}

// SettingStore is the global settings state consumed by the activity service.
type SettingStore interface {
	Get(ctx context.Context, key, def string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ActivityService implements the core operations: point computation,
// completion toggling with balance updates, and the daily reset.
type ActivityService struct {
	users       UserStore
	completions CompletionStore
	settings    SettingStore
}

// NewActivityService creates a new ActivityService instance.
func NewActivityService(users UserStore, completions CompletionStore, settings SettingStore) *ActivityService {
	return &ActivityService{
		users:       users,
		completions: completions,
		settings:    settings,
	}
}

// EventActive reports whether the x2 BP event is on. The flag is fetched
// through the store on every call; it is never cached across commands.
func (s *ActivityService) EventActive(ctx context.Context) (bool, error) {
	value, err := s.settings.Get(ctx, model.SettingDoubleBPEvent, "false")
	if err != nil {
		return false, err
	}
	active, _ := strconv.ParseBool(value)
	return active, nil
}

// SetEventActive turns the x2 BP event on or off.
func (s *ActivityService) SetEventActive(ctx context.Context, active bool) error {
	return s.settings.Set(ctx, model.SettingDoubleBPEvent, strconv.FormatBool(active))
}

// SetVIPStatus sets a user's VIP flag.
func (s *ActivityService) SetVIPStatus(ctx context.Context, userID int64, vip bool) error {
	return s.users.SetVIPStatus(ctx, userID, vip)
}

// SetBalance sets a user's balance to an exact value.
func (s *ActivityService) SetBalance(ctx context.Context, userID int64, balance int64) error {
	return s.users.SetBalance(ctx, userID, balance)
}

// ComputePoints returns the current point value of an activity for a user,
// combining the catalog entry, the user's VIP flag, and the event flag.
func (s *ActivityService) ComputePoints(ctx context.Context, activityID string, userID int64) (int64, error) {
	activity, ok := catalog.ByID(activityID)
	if !ok {
		return 0, ErrActivityNotFound
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	event, err := s.EventActive(ctx)
	if err != nil {
		return 0, err
	}

	return points.Calculate(activity, user.VIPStatus, event), nil
}

// ToggleCompletion flips an activity's completion flag for the current
// activity day and adjusts the user's balance. Returns the new balance.
//
// Completing stores the awarded amount on the record; uncompleting subtracts
// exactly that stored amount, so the balance round-trips even when the VIP or
// event flags changed in between. Toggling to the current state is a no-op on
// the balance.
func (s *ActivityService) ToggleCompletion(ctx context.Context, userID int64, activityID string, completed bool) (int64, error) {
	activity, ok := catalog.ByID(activityID)
	if !ok {
		return 0, ErrActivityNotFound
	}

	day := points.CurrentActivityDay()

	current, err := s.completions.Get(ctx, userID, activityID, day)
	if err != nil {
		return 0, err
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	if current.Completed == completed {
		return user.BPBalance, nil
	}

	var awarded, delta int64
	if completed {
		event, err := s.EventActive(ctx)
		if err != nil {
			return 0, err
		}
		awarded = points.Calculate(activity, user.VIPStatus, event)
		delta = awarded
	} else {
		delta = -current.AwardedPoints
	}

	balance, err := s.completions.ApplyToggle(ctx, userID, activityID, day, completed, awarded, delta)
	if err != nil {
		return 0, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("activity_id", activityID).
		Str("activity_day", day).
		Bool("completed", completed).
		Int64("delta", delta).
		Int64("balance", balance).
		Msg("Completion toggled")

	return balance, nil
}

// Snapshot is the full render state for one user, read in a bounded number
// of store accesses: one user row, one setting, one completed-rows batch.
type Snapshot struct {
	User        *model.User
	EventActive bool
	ActivityDay string
	Completed   []*model.Completion
}

// CompletedSet returns the completed activity ids as a set.
func (s *Snapshot) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(s.Completed))
	for _, c := range s.Completed {
		set[c.ActivityID] = true
	}
	return set
}

// EarnedToday sums the stored awarded amounts of today's completions.
func (s *Snapshot) EarnedToday() int64 {
	var total int64
	for _, c := range s.Completed {
		total += c.AwardedPoints
	}
	return total
}

// Snapshot reads the state a dashboard render needs for the current
// activity day.
func (s *ActivityService) Snapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.EventActive(ctx)
	if err != nil {
		return nil, err
	}

	day := points.CurrentActivityDay()
	completed, err := s.completions.CompletedForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		User:        user,
		EventActive: event,
		ActivityDay: day,
		Completed:   completed,
	}, nil
}

// ResetDailyCompletions bulk-clears the completion flags for one activity
// day and returns the number of rows reset.
func (s *ActivityService) ResetDailyCompletions(ctx context.Context, activityDay string) (int64, error) {
	count, err := s.completions.ResetDay(ctx, activityDay)
	if err != nil {
		return 0, err
	}
	log.Info().Str("activity_day", activityDay).Int64("count", count).Msg("Daily completions reset")
	return count, nil
}

// PruneOlderThan deletes completion rows older than the retention window and
// returns the number deleted.
func (s *ActivityService) PruneOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive, got %d", retentionDays)
	}

	cutoff, err := time.Parse(points.DayFormat, points.CurrentActivityDay())
	if err != nil {
		return 0, fmt.Errorf("failed to parse current activity day: %w", err)
	}
	cutoffDay := cutoff.AddDate(0, 0, -retentionDays).Format(points.DayFormat)

	count, err := s.completions.DeleteOlderThan(ctx, cutoffDay)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Info().Str("cutoff_day", cutoffDay).Int64("count", count).Msg("Old completions pruned")
	}
	return count, nil
}
