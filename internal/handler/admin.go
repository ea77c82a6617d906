package handler

import (
	"context"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"bonus-points-bot/internal/dashboard"
	"bonus-points-bot/internal/service"
)

// AdminHandler handles admin-only event commands.
type AdminHandler struct {
	activities *service.ActivityService
	dashboards *dashboard.Reconciler
	acks       *Acks
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(activities *service.ActivityService, dashboards *dashboard.Reconciler, acks *Acks) *AdminHandler {
	return &AdminHandler{
		activities: activities,
		dashboards: dashboards,
		acks:       acks,
	}
}

// HandleToggleEvent handles the /toggleevent command (admin only).
// Flips the global x2 BP event flag and refreshes every tracked dashboard so
// all point values update at once.
func (h *AdminHandler) HandleToggleEvent(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	active, err := h.activities.EventActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Event flag read failed")
		return h.acks.Reply(c, "❌ Не удалось прочитать состояние события")
	}

	if err := h.activities.SetEventActive(ctx, !active); err != nil {
		log.Error().Err(err).Msg("Event flag write failed")
		return h.acks.Reply(c, "❌ Не удалось переключить событие")
	}

	log.Info().
		Int64("admin_id", sender.ID).
		Bool("active", !active).
		Msg("Double BP event toggled")

	// The global flag changed every dashboard's point values; refresh them
	// in the background so the command replies promptly.
	go func() {
		if _, err := h.dashboards.RefreshAll(context.Background()); err != nil {
			log.Error().Err(err).Msg("Dashboard refresh after event toggle failed")
		}
	}()

	if !active {
		return h.acks.Reply(c, "🎉 Событие x2 BP включено!")
	}
	return h.acks.Reply(c, "✅ Событие x2 BP выключено")
}

// HandleEventStatus handles the /eventstatus command.
func (h *AdminHandler) HandleEventStatus(c tele.Context) error {
	ctx := context.Background()

	active, err := h.activities.EventActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Event flag read failed")
		return h.acks.Reply(c, "❌ Не удалось прочитать состояние события")
	}

	if active {
		return h.acks.Reply(c, "🎉 Событие x2 BP сейчас активно")
	}
	return h.acks.Reply(c, "💤 Событие x2 BP сейчас неактивно")
}
