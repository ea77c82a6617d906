package handler

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"bonus-points-bot/internal/dashboard"
	"bonus-points-bot/internal/pkg/lock"
)

// DashboardHandler handles the dashboard command.
type DashboardHandler struct {
	dashboards *dashboard.Reconciler
	userLock   *lock.UserLock
	acks       *Acks
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboards *dashboard.Reconciler, userLock *lock.UserLock, acks *Acks) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		userLock:   userLock,
		acks:       acks,
	}
}

// HandleDashboard handles the /dashboard command.
// Format: /dashboard [new]
// Without arguments the existing dashboard is refreshed in place when it
// still exists; "new" discards it and posts a fresh message in this chat.
func (h *DashboardHandler) HandleDashboard(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	forceNew := false
	if args := c.Args(); len(args) > 0 && strings.EqualFold(args[0], "new") {
		forceNew = true
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	handle, err := h.dashboards.Ensure(ctx, sender.ID, chat.ID, forceNew)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Dashboard ensure failed")
		return h.acks.Reply(c, "❌ Не удалось обновить дашборд, попробуйте позже")
	}

	// When the live dashboard sits in another chat, point the user at it
	// instead of silently editing a message they cannot see here.
	if handle.ChannelID != chat.ID {
		return h.acks.Reply(c, "📊 Дашборд обновлён в другом чате. Чтобы перенести его сюда: /dashboard new")
	}

	return nil
}
