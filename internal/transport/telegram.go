package transport

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// Telegram implements Messenger on top of a telebot instance.
type Telegram struct {
	bot *tele.Bot
}

// NewTelegram wraps a telebot instance as a Messenger.
func NewTelegram(bot *tele.Bot) *Telegram {
	return &Telegram{bot: bot}
}

// stored converts a Handle into telebot's editable message reference.
func stored(h Handle) tele.StoredMessage {
	return tele.StoredMessage{
		MessageID: strconv.FormatInt(h.MessageID, 10),
		ChatID:    h.ChannelID,
	}
}

// SendMessage posts a new message to a chat.
func (t *Telegram) SendMessage(_ context.Context, channelID int64, content string) (Handle, error) {
	msg, err := t.bot.Send(tele.ChatID(channelID), content)
	if err != nil {
		return Handle{}, classify(err)
	}
	return Handle{ChannelID: channelID, MessageID: int64(msg.ID)}, nil
}

// EditMessage edits a message in place. An unchanged-content response from
// the API is treated as success.
func (t *Telegram) EditMessage(_ context.Context, h Handle, content string) error {
	_, err := t.bot.Edit(stored(h), content)
	if err != nil && !isNotModified(err) {
		return classify(err)
	}
	return nil
}

// DeleteMessage removes a message.
func (t *Telegram) DeleteMessage(_ context.Context, h Handle) error {
	if err := t.bot.Delete(stored(h)); err != nil {
		return classify(err)
	}
	return nil
}

// FetchMessage probes message existence. The Bot API has no direct message
// lookup, so the probe is a no-op reply-markup edit: "not modified" means the
// message is still there, "not found" means it is gone.
func (t *Telegram) FetchMessage(_ context.Context, h Handle) error {
	_, err := t.bot.EditReplyMarkup(stored(h), nil)
	if err != nil && !isNotModified(err) {
		return classify(err)
	}
	return nil
}

// ResolveChannel probes chat existence and accessibility.
func (t *Telegram) ResolveChannel(_ context.Context, channelID int64) error {
	if _, err := t.bot.ChatByID(channelID); err != nil {
		return classify(err)
	}
	return nil
}

// isNotModified reports whether the error is Telegram's "message is not
// modified" response, which for probes and idempotent edits means success.
func isNotModified(err error) bool {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.Description, "message is not modified")
	}
	return false
}

// classify maps telebot errors into the transport taxonomy. Anything that is
// not clearly not-found or forbidden stays transient.
func classify(err error) error {
	var apiErr *tele.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("telegram request failed: %w", err)
	}

	switch apiErr.Code {
	case 403:
		return fmt.Errorf("%w: %s", ErrForbidden, apiErr.Description)
	case 400:
		desc := strings.ToLower(apiErr.Description)
		if strings.Contains(desc, "not found") || strings.Contains(desc, "message can't be") {
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Description)
		}
	}
	return fmt.Errorf("telegram request failed: %w", err)
}
