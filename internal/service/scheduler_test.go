package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bonus-points-bot/internal/points"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) RefreshAll(_ context.Context) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.calls, nil
}

func TestSchedulerRunOnce(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ToggleCompletion(ctx, 1, "browser", true)
	require.NoError(t, err)

	refresher := &fakeRefresher{}
	scheduler := NewScheduler(svc, refresher, 30)
	scheduler.RunOnce(ctx)

	// The pass cleared the current day and swept the dashboards
	snap, err := svc.Snapshot(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, snap.Completed)
	assert.Equal(t, 1, refresher.calls)
}

func TestSchedulerRunOnce_RefresherFailureNonFatal(t *testing.T) {
	// A failing dashboard sweep is logged, not propagated; the pass completes.
	svc, _, _, _ := newTestService()
	refresher := &fakeRefresher{err: errors.New("telegram down")}
	scheduler := NewScheduler(svc, refresher, 30)

	scheduler.RunOnce(context.Background())
	assert.Equal(t, 1, refresher.calls)
}

func TestSchedulerStartStopsOnCancel(t *testing.T) {
	svc, _, _, _ := newTestService()
	refresher := &fakeRefresher{}
	scheduler := NewScheduler(svc, refresher, 30)

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)
	cancel()
	// The loop exits without firing; the next reset instant is in the future
	// so the timer cannot have ticked.
	assert.True(t, points.NextReset(time.Now()).After(time.Now()))
}
