// Package handler provides Telegram bot command handlers.
package handler

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// Acks sends transient command acknowledgements and deletes them after a
// delay, keeping the chat clean so the dashboard message stays visible.
type Acks struct {
	delay time.Duration
}

// NewAcks creates a new Acks helper with the given deletion delay.
// A non-positive delay disables deletion.
func NewAcks(delay time.Duration) *Acks {
	return &Acks{delay: delay}
}

// Reply sends a reply and schedules its deletion. The command message itself
// is left alone. Deletion is best-effort: a message already removed by the
// user or an admin is not an error.
func (a *Acks) Reply(c tele.Context, text string) error {
	bot := c.Bot()
	msg, err := bot.Reply(c.Message(), text)
	if err != nil {
		return err
	}

	if a.delay <= 0 {
		return nil
	}

	time.AfterFunc(a.delay, func() {
		if err := bot.Delete(msg); err != nil && !isDeleteGone(err) {
			log.Debug().
				Err(err).
				Int64("chat_id", msg.Chat.ID).
				Int("message_id", msg.ID).
				Msg("Ack cleanup failed")
		}
	})

	return nil
}

// isDeleteGone reports whether a delete failed because the message is
// already gone or inaccessible.
func isDeleteGone(err error) bool {
	teleErr, ok := err.(*tele.Error)
	if !ok {
		return false
	}
	if teleErr.Code == 403 {
		return true
	}
	desc := strings.ToLower(teleErr.Description)
	return teleErr.Code == 400 && (strings.Contains(desc, "not found") || strings.Contains(desc, "can't be deleted"))
}
