package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	service "github.com/mamadbah2/smartbell/internal/service/whatsapp"
)

// WebhookHandler is the WhatsApp side door to the ranch: ranch hands send field
// commands to the webhook and operators push messages through /send-message.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler constructs the HTTP handler adapter.
func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

// Verify answers Meta's subscription handshake by echoing hub.challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.svc.VerifyWebhookToken(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.String("mode", c.Query("hub.mode")), zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive runs the field commands in a webhook delivery. Meta redelivers on any
// non-2xx status, which would record a milking twice, so command failures are
// logged and the delivery is acknowledged anyway.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	messages := len(payload.AllMessages())
	if messages == 0 {
		// Status callbacks (sent, delivered, read) carry no messages.
		c.Status(http.StatusOK)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("field commands failed", zap.Int("messages", messages), zap.Error(err))
	} else {
		h.logger.Debug("field commands handled", zap.Int("messages", messages))
	}
	c.Status(http.StatusOK)
}

// SendMessage pushes a manual text message to a ranch contact.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	err := h.svc.SendOutbound(c.Request.Context(), req)
	switch {
	case err == nil:
		c.Status(http.StatusAccepted)
	case errors.Is(err, service.ErrMessagingDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("manual message failed", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
	}
}
