package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookingsite/internal/pkg/response"
	"bookingsite/internal/pkg/validator"
)

// DepositQuoter prices the deposit shown next to each service.
type DepositQuoter interface {
	Calculate(ctx context.Context, basePriceCents int64, serviceID int64) (int64, error)
}

type Handler struct {
	repo    Repository
	deposit DepositQuoter
}

func NewHandler(repo Repository, deposit DepositQuoter) *Handler {
	return &Handler{repo: repo, deposit: deposit}
}

func (h *Handler) ListServices(c *gin.Context) {
	ctx := c.Request.Context()
	services, err := h.repo.ListActiveServices(ctx)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]ServiceView, 0, len(services))
	for _, s := range services {
		v := ServiceView{Service: s}
		if h.deposit != nil {
			amount, err := h.deposit.Calculate(ctx, s.PriceCents, s.ID)
			if err != nil {
				response.FromError(c, err)
				return
			}
			v.DepositCents = amount
		}
		out = append(out, v)
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) ListBusinessHours(c *gin.Context) {
	rules, err := h.repo.ListRules(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rules)
}

func (h *Handler) ListBlackouts(c *gin.Context) {
	from := c.DefaultQuery("from", "0000-01-01")
	to := c.DefaultQuery("to", "9999-12-31")
	out, err := h.repo.BlackoutsBetween(c.Request.Context(), from, to)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CreateBlackout(c *gin.Context) {
	var req CreateBlackoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid blackout date", errs)
		return
	}

	b := &BlackoutDate{Date: req.Date, Reason: req.Reason}
	if err := h.repo.CreateBlackout(c.Request.Context(), b); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) DeleteBlackout(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid blackout id")
		return
	}
	if err := h.repo.DeleteBlackout(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
