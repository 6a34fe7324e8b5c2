package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/config"
	"github.com/jayrboy/vercel-server-weliveapp/internal/service"
)

// HandleWebhookVerify handles GET /api/webhooks/chatbot, the Messenger Platform
// subscription handshake.
func HandleWebhookVerify(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := c.Query("hub.mode")
		verifyToken := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode == "subscribe" && verifyToken == cfg.WebhookVerifyToken {
			logger.Info("Webhook verified")
			c.String(http.StatusOK, challenge)
			return
		}

		logger.Warn("Webhook verification rejected", zap.String("mode", mode))
		c.Status(http.StatusForbidden)
	}
}

// HandleWebhookEvent handles POST /api/webhooks/chatbot. The 200 acknowledgement
// is returned immediately; each entry's first messaging event is processed in its
// own goroutine with a bounded timeout.
func HandleWebhookEvent(chatbot *service.ChatbotService, eventLog *service.EventLog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var envelope service.WebhookEnvelope
		if err := c.ShouldBindJSON(&envelope); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if envelope.Object != "page" {
			c.Status(http.StatusNotFound)
			return
		}

		for _, entry := range envelope.Entry {
			if len(entry.Messaging) == 0 {
				continue
			}
			event := entry.Messaging[0]

			kind := "unknown"
			switch {
			case event.Message != nil:
				kind = "message"
			case event.Postback != nil:
				kind = "postback"
			}
			eventLog.Push(service.EventLogEntry{
				ReceivedAt: time.Now(),
				SenderID:   event.Sender.ID,
				Kind:       kind,
				Payload:    event,
			})

			go func(ev service.MessagingEvent) {
				ctx, cancel := context.WithTimeout(context.Background(), service.EventTimeout)
				defer cancel()
				chatbot.HandleEvent(ctx, &ev)
			}(event)
		}

		c.String(http.StatusOK, "EVENT_RECEIVED")
	}
}

// HandleWebhookLog handles GET /webhooks, a diagnostic dump of recent events.
func HandleWebhookLog(eventLog *service.EventLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, eventLog.Snapshot())
	}
}
