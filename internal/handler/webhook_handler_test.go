package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
	"github.com/ljniox/ai-concierge-sub002/pkg/jobs"
)

type enqueuerMock struct {
	jobs []jobs.Job
	err  error
}

func (m *enqueuerMock) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func postWebhook(t *testing.T, handler *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	handler.Receive(c)
	return w
}

func TestWebhookHandlerQueuesInboundMessage(t *testing.T) {
	queue := &enqueuerMock{}
	handler := NewWebhookHandler(queue, "secret", nil)

	w := postWebhook(t, handler, `{"event":"message","session":"default","payload":{"id":"msg-1","from":"221770000001@c.us","body":"liste classes","fromMe":false}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "queued")
	require.Len(t, queue.jobs, 1)
	msg, ok := queue.jobs[0].Payload.(models.InboundMessage)
	require.True(t, ok)
	assert.Equal(t, models.ChannelWhatsApp, msg.Channel)
	assert.Equal(t, "221770000001", msg.From)
	assert.Equal(t, "liste classes", msg.Body)
}

func TestWebhookHandlerIgnoresOwnAndEmptyMessages(t *testing.T) {
	queue := &enqueuerMock{}
	handler := NewWebhookHandler(queue, "secret", nil)

	for _, body := range []string{
		`{"event":"message","payload":{"from":"221770000001@c.us","body":"hi","fromMe":true}}`,
		`{"event":"message","payload":{"from":"221770000001@c.us","body":"   "}}`,
		`{"event":"session.status","payload":{}}`,
		`not json`,
	} {
		w := postWebhook(t, handler, body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ignored")
	}
	assert.Empty(t, queue.jobs)
}

func TestWebhookHandlerBusyWhenQueueFull(t *testing.T) {
	queue := &enqueuerMock{err: errors.New("queue full")}
	handler := NewWebhookHandler(queue, "secret", nil)

	w := postWebhook(t, handler, `{"event":"message","payload":{"id":"m","from":"221770000001","body":"bonjour"}}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "busy")
}

func TestWebhookHandlerVerify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler(&enqueuerMock{}, "topsecret", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/webhook?hub.verify_token=topsecret&hub.challenge=12345", nil)
	c.Request = req
	handler.Verify(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ = http.NewRequest(http.MethodGet, "/webhook?hub.verify_token=wrong&hub.challenge=12345", nil)
	c.Request = req
	handler.Verify(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProcessorFuncRoutesAndSends(t *testing.T) {
	var sentTo, sentText string
	processor := ProcessorFunc(
		func(ctx context.Context, msg models.InboundMessage) (string, error) {
			return "Bonjour " + msg.From, nil
		},
		func(ctx context.Context, channel models.Channel, to, text string) error {
			sentTo = to
			sentText = text
			return nil
		},
		nil,
	)

	err := processor(context.Background(), jobs.Job{
		ID:      "j1",
		Type:    "whatsapp_message",
		Payload: models.InboundMessage{Channel: models.ChannelWhatsApp, From: "221770000001", Body: "salut"},
	})
	require.NoError(t, err)
	assert.Equal(t, "221770000001", sentTo)
	assert.Equal(t, "Bonjour 221770000001", sentText)
}

func TestProcessorFuncSkipsEmptyReply(t *testing.T) {
	sent := false
	processor := ProcessorFunc(
		func(ctx context.Context, msg models.InboundMessage) (string, error) { return "", nil },
		func(ctx context.Context, channel models.Channel, to, text string) error {
			sent = true
			return nil
		},
		nil,
	)

	err := processor(context.Background(), jobs.Job{ID: "j2", Payload: models.InboundMessage{From: "x"}})
	require.NoError(t, err)
	assert.False(t, sent)
}
