package booking

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookingsite/internal/pkg/response"
	"bookingsite/internal/pkg/validator"
)

type Handler struct {
	service *Service
	sweeper *Sweeper
}

func NewHandler(service *Service, sweeper *Sweeper) *Handler {
	return &Handler{service: service, sweeper: sweeper}
}

func (h *Handler) CreateHold(c *gin.Context) {
	var req CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request", errs)
		return
	}

	res, err := h.service.CreateHold(c.Request.Context(), HoldRequest{
		ServiceID: req.ServiceID,
		Start:     req.Start,
		End:       req.End,
		Customer: Customer{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
			Notes: req.Customer.Notes,
		},
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	b := res.Booking
	response.Success(c, http.StatusCreated, HoldResponse{
		BookingID:    b.ID.String(),
		Status:       b.Status,
		Start:        b.StartTime,
		End:          b.EndTime,
		ExpiresAt:    b.ExpiresAt,
		DepositCents: b.DepositCents,
		CheckoutURL:  res.CheckoutURL,
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPublic(b))
}

func (h *Handler) ListBookings(c *gin.Context) {
	f := ListFilter{Status: Status(c.Query("status"))}

	if raw := c.Query("service_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service_id")
			return
		}
		f.ServiceID = id
	}
	for param, dst := range map[string]*time.Time{"from": &f.From, "to": &f.To} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+param+", expected RFC3339")
			return
		}
		*dst = t
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if f.Offset < 0 {
		f.Offset = 0
	}

	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Items: items, Total: total, Limit: f.PageSize(), Offset: f.Offset})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		if errs := validator.Validate(req); errs != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid cancel request", errs)
			return
		}
	}

	b, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) UpdateNotes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notes", errs)
		return
	}

	b, err := h.service.UpdateAdminNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Sweep(c *gin.Context) {
	n, err := h.sweeper.ReleaseExpiredHolds(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"released": n})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return uuid.Nil, false
	}
	return id, true
}
