package availability

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookingsite/internal/pkg/response"
)

type Handler struct {
	calc     *Calculator
	settings SettingsReader
}

func NewHandler(calc *Calculator, settings SettingsReader) *Handler {
	return &Handler{calc: calc, settings: settings}
}

func (h *Handler) GetAvailableDates(c *gin.Context) {
	serviceID, ok := parseServiceID(c)
	if !ok {
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "days must be an integer")
			return
		}
		days = n
	}

	dates, err := h.calc.ListAvailableDates(c.Request.Context(), serviceID, days)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, DatesResponse{ServiceID: serviceID, Dates: dates})
}

func (h *Handler) GetAvailableSlots(c *gin.Context) {
	serviceID, ok := parseServiceID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date is required")
		return
	}

	ctx := c.Request.Context()
	slots, err := h.calc.ListAvailableSlots(ctx, serviceID, date)
	if err != nil {
		response.FromError(c, err)
		return
	}
	s, err := h.settings.Get(ctx)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, SlotsResponse{
		ServiceID: serviceID,
		Date:      date,
		Timezone:  s.Timezone,
		Slots:     slots,
	})
}

func parseServiceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service id")
		return 0, false
	}
	return id, true
}
