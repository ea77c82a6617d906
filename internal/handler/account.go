package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"bonus-points-bot/internal/dashboard"
	"bonus-points-bot/internal/pkg/lock"
	"bonus-points-bot/internal/service"
)

// AccountHandler handles balance and profile commands.
type AccountHandler struct {
	activities *service.ActivityService
	dashboards *dashboard.Reconciler
	userLock   *lock.UserLock
	acks       *Acks
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(activities *service.ActivityService, dashboards *dashboard.Reconciler, userLock *lock.UserLock, acks *Acks) *AccountHandler {
	return &AccountHandler{
		activities: activities,
		dashboards: dashboards,
		userLock:   userLock,
		acks:       acks,
	}
}

// HandleBalance handles the /balance command.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	snap, err := h.activities.Snapshot(ctx, sender.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Balance read failed")
		return h.acks.Reply(c, "❌ Не удалось получить баланс, попробуйте позже")
	}

	vip := "❌"
	if snap.User.VIPStatus {
		vip = "✅"
	}
	return h.acks.Reply(c, fmt.Sprintf("💰 Баланс: %d BP\n⭐ VIP: %s", snap.User.BPBalance, vip))
}

// HandleSetBalance handles the /setbalance command.
// Format: /setbalance <amount>
func (h *AccountHandler) HandleSetBalance(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return h.acks.Reply(c, "❌ Использование: /setbalance <число>\nНапример: /setbalance 100")
	}

	balance, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return h.acks.Reply(c, "❌ Баланс должен быть целым числом")
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	if err := h.activities.SetBalance(ctx, sender.ID, balance); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Balance set failed")
		return h.acks.Reply(c, "❌ Не удалось изменить баланс, попробуйте позже")
	}

	if _, err := h.dashboards.Ensure(ctx, sender.ID, chat.ID, false); err != nil {
		log.Warn().Err(err).Int64("user_id", sender.ID).Msg("Dashboard refresh after balance set failed")
	}

	return h.acks.Reply(c, fmt.Sprintf("✅ Баланс установлен: %d BP", balance))
}

// HandleSetVIP handles the /setvip command.
// Format: /setvip on|off
func (h *AccountHandler) HandleSetVIP(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return h.acks.Reply(c, "❌ Использование: /setvip on|off")
	}

	var vip bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "1", "да":
		vip = true
	case "off", "false", "0", "нет":
		vip = false
	default:
		return h.acks.Reply(c, "❌ Использование: /setvip on|off")
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	if err := h.activities.SetVIPStatus(ctx, sender.ID, vip); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("VIP set failed")
		return h.acks.Reply(c, "❌ Не удалось изменить VIP статус, попробуйте позже")
	}

	if _, err := h.dashboards.Ensure(ctx, sender.ID, chat.ID, false); err != nil {
		log.Warn().Err(err).Int64("user_id", sender.ID).Msg("Dashboard refresh after VIP change failed")
	}

	if vip {
		return h.acks.Reply(c, "⭐ VIP статус включён")
	}
	return h.acks.Reply(c, "⭐ VIP статус выключен")
}

// HandleTotal handles the /total command.
// Shows today's earned points from stored awarded amounts, not recomputed
// live values, so the figure matches what the balance actually received.
func (h *AccountHandler) HandleTotal(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	snap, err := h.activities.Snapshot(ctx, sender.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Total read failed")
		return h.acks.Reply(c, "❌ Не удалось получить итоги, попробуйте позже")
	}

	return h.acks.Reply(c, fmt.Sprintf(
		"📊 Итоги за %s\n"+
			"✅ Выполнено активностей: %d\n"+
			"💎 Заработано: %d BP\n"+
			"💰 Баланс: %d BP",
		snap.ActivityDay, len(snap.Completed), snap.EarnedToday(), snap.User.BPBalance,
	))
}
