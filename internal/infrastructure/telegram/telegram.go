package telegram

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v3"
)

// maxTextRunes is the Bot API limit for one message.
const maxTextRunes = 4096

// Notifier posts messages to one Telegram chat. The bot never polls for
// updates; it is only used to send.
type Notifier struct {
	bot    *telebot.Bot
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	b, err := telebot.NewBot(telebot.Settings{Token: token, Offline: true})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewWithBot(b, chatID), nil
}

func NewWithBot(b *telebot.Bot, chatID int64) *Notifier {
	return &Notifier{bot: b, chatID: chatID}
}

func (n *Notifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.bot.Send(&telebot.Chat{ID: n.chatID}, truncate(text, maxTextRunes), &telebot.SendOptions{DisableWebPagePreview: true}); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
