package chat

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// TelegramClient sends replies through the Telegram Bot API.
type TelegramClient struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegramClient constructs the Telegram sender. A bad token returns
// an error so the caller can run WhatsApp-only.
func NewTelegramClient(token string, logger *zap.Logger) (*TelegramClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramClient{bot: bot, logger: logger}, nil
}

// Channel implements Sender.
func (t *TelegramClient) Channel() models.Channel { return models.ChannelTelegram }

// Send delivers the text to a chat id. Telegram ignores ctx; the bot api
// client carries its own timeout.
func (t *TelegramClient) Send(ctx context.Context, to, text string) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", to, err)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	t.logger.Debug("telegram reply sent", zap.Int64("chat_id", chatID))
	return nil
}
