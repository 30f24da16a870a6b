package availability

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services/:id/available-dates", h.GetAvailableDates)
	rg.GET("/services/:id/slots", h.GetAvailableSlots)
}
