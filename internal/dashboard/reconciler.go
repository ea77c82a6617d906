// Package dashboard maintains the single live status message per user and
// keeps its content consistent with stored state across restarts, channel
// moves, and out-of-band deletion.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"bonus-points-bot/internal/model"
	"bonus-points-bot/internal/repository"
	"bonus-points-bot/internal/service"
	"bonus-points-bot/internal/transport"
)

// LocationStore is the durable dashboard-location state.
// Get returns repository.ErrDashboardNotFound when the user has no row.
type LocationStore interface {
	Save(ctx context.Context, userID, channelID, messageID int64) error
	Get(ctx context.Context, userID int64) (*model.DashboardLocation, error)
	Delete(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]*model.DashboardLocation, error)
}

// StateReader supplies the render state for a user.
type StateReader interface {
	Snapshot(ctx context.Context, userID int64) (*service.Snapshot, error)
}

// cacheEntry is the advisory in-memory record of a live dashboard handle.
// It may be stale or absent; the stored row and the remote probe are the
// ground truth.
type cacheEntry struct {
	handle    transport.Handle
	updatedAt time.Time
}

// Reconciler owns the at-most-one-dashboard-per-user invariant.
type Reconciler struct {
	messenger transport.Messenger
	locations LocationStore
	state     StateReader

	mu    sync.Mutex
	cache map[int64]cacheEntry
}

// NewReconciler creates a new Reconciler instance.
func NewReconciler(messenger transport.Messenger, locations LocationStore, state StateReader) *Reconciler {
	return &Reconciler{
		messenger: messenger,
		locations: locations,
		state:     state,
		cache:     make(map[int64]cacheEntry),
	}
}

func (r *Reconciler) cached(userID int64) (transport.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[userID]
	return entry.handle, ok
}

func (r *Reconciler) remember(userID int64, h transport.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[userID] = cacheEntry{handle: h, updatedAt: time.Now()}
}

func (r *Reconciler) forget(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, userID)
}

// render reads current state and produces the dashboard content.
func (r *Reconciler) render(ctx context.Context, userID int64) (string, error) {
	snap, err := r.state.Snapshot(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to read dashboard state: %w", err)
	}
	return Render(snap), nil
}

// Ensure reconciles a user's dashboard with current state and returns its
// handle. channelID is where a new message is posted when no usable surface
// exists. With forceNew the existing surface is discarded first.
//
// Transient transport or store errors abort the call without mutating any
// stored location state; the next Ensure retries the full resolution
// sequence. After a successful return the stored row points at the surface
// that was just edited or created.
func (r *Reconciler) Ensure(ctx context.Context, userID, channelID int64, forceNew bool) (transport.Handle, error) {
	if forceNew {
		r.discard(ctx, userID)
		return r.create(ctx, userID, channelID)
	}

	// Fast path: cached live handle.
	if h, ok := r.cached(userID); ok {
		switch err := r.messenger.FetchMessage(ctx, h); {
		case err == nil:
			done, handle, err := r.editInPlace(ctx, userID, h)
			if err != nil {
				return transport.Handle{}, err
			}
			if done {
				return handle, nil
			}
			// Edit reported the surface gone; fall through to the stored row.
		case transport.IsGone(err):
			r.noteGone(userID, h, err, "cache probe")
			r.forget(userID)
			// The stored row is reconciled below, not deleted here.
		default:
			return transport.Handle{}, err
		}
	}

	// Slow path: resolve via the stored location row.
	loc, err := r.locations.Get(ctx, userID)
	switch {
	case err == nil:
		h := transport.Handle{ChannelID: loc.ChannelID, MessageID: loc.MessageID}
		probeErr := r.messenger.ResolveChannel(ctx, h.ChannelID)
		if probeErr == nil {
			probeErr = r.messenger.FetchMessage(ctx, h)
		}
		switch {
		case probeErr == nil:
			done, handle, err := r.editInPlace(ctx, userID, h)
			if err != nil {
				return transport.Handle{}, err
			}
			if done {
				return handle, nil
			}
			if err := r.locations.Delete(ctx, userID); err != nil {
				return transport.Handle{}, err
			}
		case transport.IsGone(probeErr):
			r.noteGone(userID, h, probeErr, "stored row probe")
			if err := r.locations.Delete(ctx, userID); err != nil {
				return transport.Handle{}, err
			}
		default:
			return transport.Handle{}, probeErr
		}
	case errors.Is(err, repository.ErrDashboardNotFound):
		// No tracked surface; create one.
	default:
		return transport.Handle{}, err
	}

	return r.create(ctx, userID, channelID)
}

// editInPlace renders current state into an existing surface. Returns
// done=false when the surface turned out to be gone mid-edit, in which case
// the cache entry is already cleared and the caller reconciles the row.
func (r *Reconciler) editInPlace(ctx context.Context, userID int64, h transport.Handle) (bool, transport.Handle, error) {
	content, err := r.render(ctx, userID)
	if err != nil {
		return false, transport.Handle{}, err
	}

	switch err := r.messenger.EditMessage(ctx, h, content); {
	case err == nil:
		r.remember(userID, h)
		if err := r.locations.Save(ctx, userID, h.ChannelID, h.MessageID); err != nil {
			return false, transport.Handle{}, err
		}
		editsTotal.Inc()
		return true, h, nil
	case transport.IsGone(err):
		r.noteGone(userID, h, err, "edit")
		r.forget(userID)
		return false, transport.Handle{}, nil
	default:
		return false, transport.Handle{}, err
	}
}

// create posts a fresh dashboard message and records it as the user's single
// tracked surface. The row upsert overwrites any stale leftover.
func (r *Reconciler) create(ctx context.Context, userID, channelID int64) (transport.Handle, error) {
	content, err := r.render(ctx, userID)
	if err != nil {
		return transport.Handle{}, err
	}

	h, err := r.messenger.SendMessage(ctx, channelID, content)
	if err != nil {
		return transport.Handle{}, err
	}

	if err := r.locations.Save(ctx, userID, h.ChannelID, h.MessageID); err != nil {
		return transport.Handle{}, err
	}
	r.remember(userID, h)
	createsTotal.Inc()

	log.Info().
		Int64("user_id", userID).
		Int64("channel_id", h.ChannelID).
		Int64("message_id", h.MessageID).
		Msg("Dashboard created")

	return h, nil
}

// discard removes the user's existing surface ahead of a forced recreation.
// Remote deletion is best-effort: not-found and forbidden are swallowed.
func (r *Reconciler) discard(ctx context.Context, userID int64) {
	loc, err := r.locations.Get(ctx, userID)
	if err == nil {
		h := transport.Handle{ChannelID: loc.ChannelID, MessageID: loc.MessageID}
		if err := r.messenger.DeleteMessage(ctx, h); err != nil && !transport.IsGone(err) {
			log.Debug().Err(err).Int64("user_id", userID).Msg("Best-effort dashboard delete failed")
		}
	} else if !errors.Is(err, repository.ErrDashboardNotFound) {
		log.Debug().Err(err).Int64("user_id", userID).Msg("Could not read dashboard row before recreation")
	}

	r.forget(userID)
	if err := r.locations.Delete(ctx, userID); err != nil {
		log.Debug().Err(err).Int64("user_id", userID).Msg("Could not clear dashboard row before recreation")
	}
}

// noteGone logs a gone surface. Forbidden is logged at warn because it means
// a permissions regression rather than a user deleting the message.
func (r *Reconciler) noteGone(userID int64, h transport.Handle, err error, stage string) {
	if errors.Is(err, transport.ErrForbidden) {
		staleTotal.WithLabelValues("forbidden").Inc()
		log.Warn().
			Int64("user_id", userID).
			Int64("channel_id", h.ChannelID).
			Int64("message_id", h.MessageID).
			Str("stage", stage).
			Msg("Dashboard access forbidden, recreating")
		return
	}
	staleTotal.WithLabelValues("not_found").Inc()
	log.Info().
		Int64("user_id", userID).
		Int64("channel_id", h.ChannelID).
		Int64("message_id", h.MessageID).
		Str("stage", stage).
		Msg("Dashboard message gone, recreating")
}

// RefreshAll reconciles every tracked dashboard, iterating the stored rows
// rather than the cache so dashboards recover after a restart. Failures on
// one user do not stop the sweep. Returns the number refreshed successfully.
func (r *Reconciler) RefreshAll(ctx context.Context) (int, error) {
	locations, err := r.locations.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list dashboards: %w", err)
	}

	refreshed := 0
	for _, loc := range locations {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if _, err := r.Ensure(ctx, loc.UserID, loc.ChannelID, false); err != nil {
			log.Error().Err(err).Int64("user_id", loc.UserID).Msg("Dashboard refresh failed")
			continue
		}
		refreshed++
	}

	log.Info().Int("refreshed", refreshed).Int("tracked", len(locations)).Msg("Dashboard refresh sweep done")
	return refreshed, nil
}
