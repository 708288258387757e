package notify

import (
	"context"
	"fmt"
	"net/http"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"crypto_alert/internal/models"
	"crypto_alert/pkg/logger"
)

type Notifier interface {
	Send(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, name string, png []byte, caption string) error
}

// Telegram: отправка в один чат, Markdown.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

// NewTelegramWithEndpoint: для своего api-сервера (и тестов).
func NewTelegramWithEndpoint(token, endpoint string, chatID int64, hc *http.Client) (*Telegram, error) {
	b, err := tgbot.NewBotAPIWithClient(token, endpoint, hc)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbot.NewMessage(t.chatID, text)
	msg.ParseMode = tgbot.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: telegram sendMessage: %v", models.ErrDeliveryFailure, err)
	}
	return nil
}

func (t *Telegram) SendPhoto(ctx context.Context, name string, png []byte, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := tgbot.NewPhoto(t.chatID, tgbot.FileBytes{Name: name, Bytes: png})
	photo.Caption = caption
	if _, err := t.bot.Send(photo); err != nil {
		return fmt.Errorf("%w: telegram sendPhoto: %v", models.ErrDeliveryFailure, err)
	}
	return nil
}

// EscapeMarkdown экранирует произвольный текст (ошибки, имена) под ModeMarkdown.
func EscapeMarkdown(s string) string {
	return tgbot.EscapeText(tgbot.ModeMarkdown, s)
}

// Stdout - заглушка без токена, всё в лог.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Send(_ context.Context, text string) error {
	logger.Info("NOTIFY: %s", text)
	return nil
}

func (s *Stdout) SendPhoto(_ context.Context, name string, png []byte, caption string) error {
	logger.Info("NOTIFY photo %s (%d bytes): %s", name, len(png), caption)
	return nil
}

// New: если TELEGRAM_* нет, используем stdout.
func New(token string, chatID int64) (Notifier, error) {
	if token == "" || chatID == 0 {
		logger.Warn("telegram is not configured, alerts go to stdout")
		return NewStdout(), nil
	}
	return NewTelegram(token, chatID)
}
