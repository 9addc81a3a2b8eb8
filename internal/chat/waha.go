package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/pkg/config"
)

// ErrChannelNotConfigured is returned when no sender serves a channel.
var ErrChannelNotConfigured = errors.New("chat channel not configured")

// WahaClient sends WhatsApp replies through a WAHA gateway instance.
type WahaClient struct {
	baseURL string
	session string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewWahaClient constructs the WAHA sender.
func NewWahaClient(cfg config.WhatsAppConfig, logger *zap.Logger) *WahaClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WahaClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		session: cfg.Session,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Channel implements Sender.
func (w *WahaClient) Channel() models.Channel { return models.ChannelWhatsApp }

type wahaSendTextRequest struct {
	Session string `json:"session"`
	ChatID  string `json:"chatId"`
	Text    string `json:"text"`
}

// Send posts a sendText call to the gateway. The recipient is a bare
// phone number; WAHA chat ids carry the @c.us suffix.
func (w *WahaClient) Send(ctx context.Context, to, text string) error {
	chatID := to
	if !strings.Contains(chatID, "@") {
		chatID = chatID + "@c.us"
	}

	body, err := json.Marshal(wahaSendTextRequest{Session: w.session, ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal waha request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/api/sendText", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build waha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.apiKey != "" {
		req.Header.Set("X-Api-Key", w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("waha sendText: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("waha sendText returned status %d", resp.StatusCode)
	}

	w.logger.Debug("whatsapp reply sent", zap.String("chat_id", chatID))
	return nil
}
