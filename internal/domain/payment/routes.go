package payment

import "github.com/gin-gonic/gin"

func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/stripe/webhook", h.Handle)
}
