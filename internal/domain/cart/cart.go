package cart

import (
	"net/http"
	"strings"
	"time"

	"bookingsite/internal/pkg/apperror"
)

const MaxQuantity = 99

var (
	ErrItemNotFound    = apperror.New(http.StatusNotFound, "NOT_FOUND", "item is not in the cart")
	ErrInvalidItem     = apperror.New(http.StatusBadRequest, "VALIDATION_ERROR", "item needs a sku, a name and a non-negative price")
	ErrInvalidQuantity = apperror.New(http.StatusBadRequest, "VALIDATION_ERROR", "quantity must be between 1 and 99")
)

type Item struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

func (i Item) LineTotal() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// Cart is owned by one shopper. It is not safe for concurrent use; the Store
// hands out a fresh copy on every Load.
type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(id string) *Cart {
	return &Cart{ID: id, Items: []Item{}}
}

// Add puts item in the cart, merging quantities when the SKU is already there.
func (c *Cart) Add(item Item) error {
	item.SKU = strings.TrimSpace(item.SKU)
	item.Name = strings.TrimSpace(item.Name)
	if item.SKU == "" || item.Name == "" || item.UnitPriceCents < 0 {
		return ErrInvalidItem
	}
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	if i := c.index(item.SKU); i >= 0 {
		qty := c.Items[i].Quantity + item.Quantity
		if qty > MaxQuantity {
			return ErrInvalidQuantity
		}
		c.Items[i].Quantity = qty
		c.Items[i].Name = item.Name
		c.Items[i].UnitPriceCents = item.UnitPriceCents
		return nil
	}

	if item.Quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	c.Items = append(c.Items, item)
	return nil
}

func (c *Cart) Remove(sku string) error {
	i := c.index(sku)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

// UpdateQuantity sets the quantity of sku. Zero removes the line.
func (c *Cart) UpdateQuantity(sku string, qty int) error {
	if qty == 0 {
		return c.Remove(sku)
	}
	if qty < 0 || qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	i := c.index(sku)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items[i].Quantity = qty
	return nil
}

func (c *Cart) Clear() {
	c.Items = []Item{}
}

func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}

func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) index(sku string) int {
	for i, it := range c.Items {
		if it.SKU == sku {
			return i
		}
	}
	return -1
}
