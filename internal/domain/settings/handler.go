package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookingsite/internal/pkg/response"
)

type Handler struct {
	provider *Provider
}

func NewHandler(provider *Provider) *Handler {
	return &Handler{provider: provider}
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.provider.Get(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

func (h *Handler) Update(c *gin.Context) {
	var req BookingSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.provider.Save(c.Request.Context(), &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, req)
}
