package booking

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public booking routes. holdMiddleware runs in
// front of hold creation only (rate limiting).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, holdMiddleware ...gin.HandlerFunc) {
	rg.POST("/bookings/holds", append(holdMiddleware, h.CreateHold)...)
	rg.GET("/bookings/:id", h.GetBooking)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.PATCH("/:id/confirm", h.ConfirmBooking)
		bookings.PATCH("/:id/cancel", h.CancelBooking)
		bookings.PATCH("/:id/notes", h.UpdateNotes)
	}
}

// RegisterInternalRoutes mounts machine-triggered routes; rg must already
// carry the internal token check.
func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.POST("/sweep", h.Sweep)
}
