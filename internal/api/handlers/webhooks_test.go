package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/config"
	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/facebook"
	"github.com/jayrboy/vercel-server-weliveapp/internal/service"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type stubGraph struct{}

func (stubGraph) GetProfileName(ctx context.Context, psid string) (string, error) {
	return "someone", nil
}

func (stubGraph) SendMessage(ctx context.Context, psid string, message *facebook.Message) error {
	return nil
}

type stubOrderFinder struct{}

func (stubOrderFinder) GetNewestByCustomerName(ctx context.Context, name string) (*domain.SaleOrder, error) {
	return nil, &errors.ErrNotFound{Resource: "sale_order", ID: name}
}

func webhookTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *service.EventLog) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eventLog := service.NewEventLog(100)
	chatbot := service.NewChatbotService(stubGraph{}, stubOrderFinder{}, "https://weliveapp.netlify.app", zap.NewNop())

	router := gin.New()
	router.GET("/api/webhooks/chatbot", HandleWebhookVerify(cfg, zap.NewNop()))
	router.POST("/api/webhooks/chatbot", HandleWebhookEvent(chatbot, eventLog, zap.NewNop()))
	router.GET("/webhooks", HandleWebhookLog(eventLog))
	return router, eventLog
}

func TestWebhookVerifyAccepts(t *testing.T) {
	cfg := &config.Config{WebhookVerifyToken: "message001"}
	router, _ := webhookTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet,
		"/api/webhooks/chatbot?hub.mode=subscribe&hub.verify_token=message001&hub.challenge=xyz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "xyz", w.Body.String())
}

func TestWebhookVerifyRejects(t *testing.T) {
	cfg := &config.Config{WebhookVerifyToken: "message001"}
	router, _ := webhookTestRouter(t, cfg)

	tests := []string{
		"/api/webhooks/chatbot?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=xyz",
		"/api/webhooks/chatbot?hub.mode=unsubscribe&hub.verify_token=message001&hub.challenge=xyz",
		"/api/webhooks/chatbot",
	}
	for _, url := range tests {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, url)
	}
}

func TestWebhookEventNonPageObject(t *testing.T) {
	cfg := &config.Config{WebhookVerifyToken: "message001"}
	router, _ := webhookTestRouter(t, cfg)

	body := `{"object":"user","entry":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/chatbot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookEventAcknowledged(t *testing.T) {
	cfg := &config.Config{WebhookVerifyToken: "message001"}
	router, eventLog := webhookTestRouter(t, cfg)

	body := `{
		"object": "page",
		"entry": [
			{"id": "page-1", "messaging": [
				{"sender": {"id": "psid-1"}, "message": {"text": "hello"}},
				{"sender": {"id": "psid-ignored"}, "message": {"text": "second event"}}
			]}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/chatbot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EVENT_RECEIVED", w.Body.String())

	// only the first messaging event per entry is recorded
	entries := eventLog.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "psid-1", entries[0].SenderID)
	assert.Equal(t, "message", entries[0].Kind)
}

func TestWebhookLogDump(t *testing.T) {
	cfg := &config.Config{WebhookVerifyToken: "message001"}
	router, eventLog := webhookTestRouter(t, cfg)

	eventLog.Push(service.EventLogEntry{SenderID: "psid-9", Kind: "postback"})

	req := httptest.NewRequest(http.MethodGet, "/webhooks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "psid-9")
}
