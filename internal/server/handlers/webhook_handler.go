package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/domain/models"
	service "github.com/mamadbah2/cement/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/cement/pkg/clients/whatsapp"
)

// whatsappObject is the payload object of WhatsApp Business webhooks.
const whatsappObject = "whatsapp_business_account"

// WebhookHandler serves the WhatsApp webhook and the manual send endpoint.
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

type verifyQuery struct {
	Mode      string `form:"hub.mode" binding:"required"`
	Token     string `form:"hub.verify_token" binding:"required"`
	Challenge string `form:"hub.challenge"`
}

// Verify answers Meta's subscription handshake by echoing hub.challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	var q verifyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Warn("webhook verification without mode or token", zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	resp, err := h.svc.VerifyWebhookToken(q.Mode, q.Token, q.Challenge)
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.String("mode", q.Mode), zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	h.logger.Info("webhook verified")
	c.String(http.StatusOK, resp)
}

// Receive runs the chat commands carried by a webhook callback. Any decoded
// payload is answered with 200, including failed commands: Meta redelivers
// on other codes and a replayed sale would be recorded twice.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if payload.Object != whatsappObject {
		h.logger.Warn("ignoring webhook for unexpected object", zap.String("object", payload.Object))
		c.Status(http.StatusOK)
		return
	}

	// Ledger writes must finish even if Meta drops the connection.
	ctx := context.WithoutCancel(c.Request.Context())
	if err := h.svc.HandleWebhook(ctx, payload); err != nil {
		h.logger.Error("failed processing webhook",
			zap.Int("messages", len(payload.Messages())),
			zap.Error(err))
	}

	c.Status(http.StatusOK)
}

// SendMessage pushes a manual message to a WhatsApp number.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		body := gin.H{"error": "unable to send message"}
		var apiErr *whatsappclient.APIError
		if errors.As(err, &apiErr) {
			body["detail"] = apiErr.Message
		}
		h.logger.Error("failed sending outbound", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusBadGateway, body)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"to": req.To})
}
