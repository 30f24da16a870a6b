package settings

import "github.com/gin-gonic/gin"

// RegisterAdminRoutes expects rg to already carry admin authentication.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", h.Update)
}
