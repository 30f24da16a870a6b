package cart

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/carts")
	{
		carts.GET("/:id", h.GetCart)
		carts.DELETE("/:id", h.ClearCart)
		carts.POST("/:id/items", h.AddItem)
		carts.PATCH("/:id/items/:sku", h.UpdateItem)
		carts.DELETE("/:id/items/:sku", h.RemoveItem)
	}
}
