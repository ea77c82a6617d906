package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"bonus-points-bot/internal/catalog"
	"bonus-points-bot/internal/dashboard"
	"bonus-points-bot/internal/pkg/lock"
	"bonus-points-bot/internal/service"
)

// searchLimit caps /activities search results.
const searchLimit = 20

// ActivityHandler handles activity completion commands.
type ActivityHandler struct {
	activities *service.ActivityService
	dashboards *dashboard.Reconciler
	userLock   *lock.UserLock
	acks       *Acks
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activities *service.ActivityService, dashboards *dashboard.Reconciler, userLock *lock.UserLock, acks *Acks) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		dashboards: dashboards,
		userLock:   userLock,
		acks:       acks,
	}
}

// HandleComplete handles the /complete command.
// Format: /complete <activity_id>
func (h *ActivityHandler) HandleComplete(c tele.Context) error {
	return h.toggle(c, true)
}

// HandleUncomplete handles the /uncomplete command.
// Format: /uncomplete <activity_id>
func (h *ActivityHandler) HandleUncomplete(c tele.Context) error {
	return h.toggle(c, false)
}

// toggle runs one completion toggle and refreshes the user's dashboard.
// The per-user lock covers both so concurrent commands from the same user
// serialize into consistent balance and dashboard updates.
func (h *ActivityHandler) toggle(c tele.Context, completed bool) error {
	ctx := context.Background()
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		if completed {
			return h.acks.Reply(c, "❌ Использование: /complete <активность>\nНапример: /complete browser")
		}
		return h.acks.Reply(c, "❌ Использование: /uncomplete <активность>\nНапример: /uncomplete browser")
	}

	activityID := strings.ToLower(args[0])

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	balance, err := h.activities.ToggleCompletion(ctx, sender.ID, activityID, completed)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			return h.acks.Reply(c, h.unknownActivityReply(activityID))
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Str("activity_id", activityID).Msg("Toggle failed")
		return h.acks.Reply(c, "❌ Не удалось обновить активность, попробуйте позже")
	}

	if _, err := h.dashboards.Ensure(ctx, sender.ID, chat.ID, false); err != nil {
		log.Warn().Err(err).Int64("user_id", sender.ID).Msg("Dashboard refresh after toggle failed")
	}

	activity, _ := catalog.ByID(activityID)
	if completed {
		return h.acks.Reply(c, fmt.Sprintf("✅ «%s» выполнено! Баланс: %d BP", activity.Name, balance))
	}
	return h.acks.Reply(c, fmt.Sprintf("↩️ «%s» отменено. Баланс: %d BP", activity.Name, balance))
}

// unknownActivityReply builds the error text for an unknown activity id,
// suggesting close matches when the query looks like a partial name.
func (h *ActivityHandler) unknownActivityReply(query string) string {
	matches := catalog.Search(query, 5)
	if len(matches) == 0 {
		return "❌ Активность не найдена. Список: /activities"
	}

	var b strings.Builder
	b.WriteString("❌ Активность не найдена. Возможно, вы имели в виду:\n")
	for _, a := range matches {
		fmt.Fprintf(&b, "• %s — %s\n", a.ID, a.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// HandleActivities handles the /activities command.
// Format: /activities [запрос]
// Without arguments lists the full catalog by category; with a query it
// searches ids and names.
func (h *ActivityHandler) HandleActivities(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) > 0 {
		return h.replySearch(c, strings.Join(args, " "))
	}

	event, err := h.activities.EventActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Event flag read failed")
		event = false
	}

	var b strings.Builder
	b.WriteString("📋 Каталог активностей\n")
	if event {
		b.WriteString("🎉 СОБЫТИЕ: x2 BP!\n")
	}

	for _, category := range catalog.Categories() {
		fmt.Fprintf(&b, "\n%s\n", category)
		for _, a := range catalog.ByCategory(category) {
			fmt.Fprintf(&b, "• %s — %s (%d/%d BP)\n", a.ID, a.Name, a.BasePoints, a.VIPPoints)
		}
	}
	b.WriteString("\nОтметить: /complete <активность>")

	return c.Reply(b.String())
}

// replySearch lists activities matching a query.
func (h *ActivityHandler) replySearch(c tele.Context, query string) error {
	matches := catalog.Search(query, searchLimit)
	if len(matches) == 0 {
		return h.acks.Reply(c, fmt.Sprintf("🔍 По запросу «%s» ничего не найдено", query))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Найдено (%d):\n", len(matches))
	for _, a := range matches {
		fmt.Fprintf(&b, "• %s — %s (%d/%d BP)\n", a.ID, a.Name, a.BasePoints, a.VIPPoints)
	}
	return c.Reply(strings.TrimRight(b.String(), "\n"))
}
