package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/pkg/jobs"
)

// wahaWebhookPayload is the WAHA event shape for inbound messages.
type wahaWebhookPayload struct {
	Event   string `json:"event"`
	Session string `json:"session"`
	Payload struct {
		ID     string `json:"id"`
		From   string `json:"from"`
		Body   string `json:"body"`
		FromMe bool   `json:"fromMe"`
	} `json:"payload"`
}

type messageEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// WebhookHandler receives WAHA/WhatsApp webhook events and hands them to
// the processing queue.
type WebhookHandler struct {
	queue       messageEnqueuer
	verifyToken string
	logger      *zap.Logger
}

// NewWebhookHandler builds the handler.
func NewWebhookHandler(queue messageEnqueuer, verifyToken string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{queue: queue, verifyToken: verifyToken, logger: logger}
}

// Receive godoc
// @Summary Receive a WhatsApp webhook event
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /webhook [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload wahaWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	// Only inbound text messages are routed; everything else is
	// acknowledged so WAHA does not retry.
	if payload.Event != "message" || payload.Payload.FromMe || strings.TrimSpace(payload.Payload.Body) == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	msg := models.InboundMessage{
		Channel:    models.ChannelWhatsApp,
		From:       normalizeWhatsAppSender(payload.Payload.From),
		Body:       payload.Payload.Body,
		ProviderID: payload.Payload.ID,
		ReceivedAt: time.Now().UTC(),
	}

	if err := h.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "whatsapp_message", Payload: msg}); err != nil {
		h.logger.Error("webhook enqueue failed", zap.String("from", msg.From), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "busy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}

// Verify godoc
// @Summary Webhook verification echo
// @Tags Webhooks
// @Produce plain
// @Param hub.verify_token query string true "Verify token"
// @Param hub.challenge query string true "Challenge to echo"
// @Success 200 {string} string
// @Router /webhook [get]
func (h *WebhookHandler) Verify(c *gin.Context) {
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")
	if h.verifyToken == "" || token != h.verifyToken {
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// normalizeWhatsAppSender strips the chat suffix from a WAHA sender id,
// "221770000001@c.us" becomes "221770000001".
func normalizeWhatsAppSender(from string) string {
	if i := strings.Index(from, "@"); i >= 0 {
		return from[:i]
	}
	return from
}

// ProcessorFunc adapts the router and dispatcher into a queue handler.
func ProcessorFunc(route func(ctx context.Context, msg models.InboundMessage) (string, error), send func(ctx context.Context, channel models.Channel, to, text string) error, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(models.InboundMessage)
		if !ok {
			logger.Error("unexpected job payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
			return nil
		}
		reply, err := route(ctx, msg)
		if err != nil {
			return err
		}
		if reply == "" {
			return nil
		}
		return send(ctx, msg.Channel, msg.From, reply)
	}
}
