package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.ListServices)
	rg.GET("/business-hours", h.ListBusinessHours)
}

// RegisterAdminRoutes expects rg to already carry admin authentication.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/blackouts", h.ListBlackouts)
	rg.POST("/blackouts", h.CreateBlackout)
	rg.DELETE("/blackouts/:id", h.DeleteBlackout)
}
