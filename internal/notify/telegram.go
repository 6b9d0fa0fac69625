package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// Telegram delivers messages to a single chat via the Bot API.
type Telegram struct {
	bot    *bot.Bot
	chatID int64
	log    *zap.Logger
}

// TelegramOption tweaks the underlying bot client.
type TelegramOption func(*[]bot.Option)

// WithServerURL points the bot at an alternative API server (tests).
func WithServerURL(url string) TelegramOption {
	return func(opts *[]bot.Option) {
		*opts = append(*opts, bot.WithServerURL(url))
	}
}

// NewTelegram builds the sender. GetMe is skipped so construction works
// offline; a bad token surfaces on the first send instead.
func NewTelegram(token string, chatID int64, log *zap.Logger, opts ...TelegramOption) (*Telegram, error) {
	botOpts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(sendTimeout, &http.Client{Timeout: sendTimeout}),
	}
	for _, o := range opts {
		o(&botOpts)
	}

	b, err := bot.New(token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: b, chatID: chatID, log: log}, nil
}

// Send posts one message with link previews disabled. Failures are logged and
// reported through the return value only.
func (t *Telegram) Send(ctx context.Context, text string, mode ParseMode) bool {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:             t.chatID,
		Text:               text,
		ParseMode:          models.ParseMode(mode),
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
	})
	if err != nil {
		t.log.Error("telegram send failed", zap.Error(err))
		return false
	}
	t.log.Info("telegram notification sent")
	return true
}
