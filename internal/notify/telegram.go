// Package notify delivers tracker alerts to a Telegram channel.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Telegram sends messages to a single chat. Satisfies models.Notifier.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram connects the bot and verifies the token.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

// Send delivers one message. Silent messages arrive without a client-side
// sound, used for informational notices that should not wake anyone.
func (t *Telegram) Send(ctx context.Context, text string, silent bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableNotification = silent

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error().Err(err).Msg("Sending telegram message failed")
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}
