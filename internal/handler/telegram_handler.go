package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/pkg/jobs"
)

// TelegramHandler receives Telegram webhook updates.
type TelegramHandler struct {
	queue  messageEnqueuer
	secret string
	logger *zap.Logger
}

// NewTelegramHandler builds the handler. secret, when set, must match
// the X-Telegram-Bot-Api-Secret-Token header Telegram sends.
func NewTelegramHandler(queue messageEnqueuer, secret string, logger *zap.Logger) *TelegramHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramHandler{queue: queue, secret: secret, logger: logger}
}

// Receive godoc
// @Summary Receive a Telegram webhook update
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /telegram/webhook [post]
func (h *TelegramHandler) Receive(c *gin.Context) {
	if h.secret != "" && c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != h.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "unauthorized"})
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	msg := models.InboundMessage{
		Channel:    models.ChannelTelegram,
		From:       strconv.FormatInt(update.Message.Chat.ID, 10),
		Body:       update.Message.Text,
		ProviderID: strconv.Itoa(update.Message.MessageID),
		ReceivedAt: time.Now().UTC(),
	}

	if err := h.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "telegram_message", Payload: msg}); err != nil {
		h.logger.Error("telegram enqueue failed", zap.String("chat", msg.From), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "busy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}
