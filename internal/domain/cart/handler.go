package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookingsite/internal/pkg/response"
	"bookingsite/internal/pkg/validator"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) GetCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	cart, err := h.store.Load(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toView(cart))
}

func (h *Handler) AddItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid cart item", errs)
		return
	}

	h.mutate(c, id, func(cart *Cart) error {
		return cart.Add(Item{
			SKU:            req.SKU,
			Name:           req.Name,
			UnitPriceCents: req.UnitPriceCents,
			Quantity:       req.Quantity,
		})
	})
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quantity", errs)
		return
	}

	sku := c.Param("sku")
	h.mutate(c, id, func(cart *Cart) error {
		return cart.UpdateQuantity(sku, *req.Quantity)
	})
}

func (h *Handler) RemoveItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	sku := c.Param("sku")
	h.mutate(c, id, func(cart *Cart) error {
		return cart.Remove(sku)
	})
}

func (h *Handler) ClearCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// mutate is load, apply, save. Concurrent writers to one cart are last-write-wins.
func (h *Handler) mutate(c *gin.Context, id string, apply func(*Cart) error) {
	ctx := c.Request.Context()
	cart, err := h.store.Load(ctx, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := apply(cart); err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.store.Save(ctx, cart); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toView(cart))
}

func cartID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid cart id")
		return "", false
	}
	return id.String(), true
}
