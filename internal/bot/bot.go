// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"bonus-points-bot/internal/config"
	"bonus-points-bot/internal/dashboard"
	"bonus-points-bot/internal/handler"
	"bonus-points-bot/internal/pkg/lock"
	"bonus-points-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	activityHandler  *handler.ActivityHandler
	accountHandler   *handler.AccountHandler
	adminHandler     *handler.AdminHandler
	dashboardHandler *handler.DashboardHandler
}

// Dependencies holds everything the bot handlers need.
type Dependencies struct {
	Config     *config.Config
	Activities *service.ActivityService
	Dashboards *dashboard.Reconciler
	UserLock   *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(telebot *tele.Bot, deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	b := &Bot{
		bot: telebot,
		cfg: deps.Config,
	}

	acks := handler.NewAcks(deps.Config.Dashboard.AckDeleteDelay)

	b.activityHandler = handler.NewActivityHandler(deps.Activities, deps.Dashboards, deps.UserLock, acks)
	b.accountHandler = handler.NewAccountHandler(deps.Activities, deps.Dashboards, deps.UserLock, acks)
	b.adminHandler = handler.NewAdminHandler(deps.Activities, deps.Dashboards, acks)
	b.dashboardHandler = handler.NewDashboardHandler(deps.Dashboards, deps.UserLock, acks)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// NewTelebot constructs the underlying telebot instance.
func NewTelebot(cfg *config.Config) (*tele.Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return teleBot, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command handlers.
func (b *Bot) registerHandlers() {
	// Activity commands
	b.bot.Handle("/activities", b.activityHandler.HandleActivities)
	b.bot.Handle("/complete", b.activityHandler.HandleComplete)
	b.bot.Handle("/uncomplete", b.activityHandler.HandleUncomplete)

	// Account commands
	b.bot.Handle("/balance", b.accountHandler.HandleBalance)
	b.bot.Handle("/setbalance", b.accountHandler.HandleSetBalance)
	b.bot.Handle("/setvip", b.accountHandler.HandleSetVIP)
	b.bot.Handle("/total", b.accountHandler.HandleTotal)

	// Dashboard command
	b.bot.Handle("/dashboard", b.dashboardHandler.HandleDashboard)

	b.bot.Handle("/help", handler.HandleHelp)

	// Event status is readable by everyone
	b.bot.Handle("/eventstatus", b.adminHandler.HandleEventStatus)

	// Admin commands
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/toggleevent", b.adminHandler.HandleToggleEvent)
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
