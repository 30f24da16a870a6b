package cart

import "time"

type AddItemRequest struct {
	SKU            string `json:"sku" validate:"required,max=64"`
	Name           string `json:"name" validate:"required,max=200"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"gte=0"`
	Quantity       int    `json:"quantity" validate:"gte=1,lte=99"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=99"`
}

type View struct {
	ID         string    `json:"id"`
	Items      []Item    `json:"items"`
	ItemCount  int       `json:"item_count"`
	TotalCents int64     `json:"total_cents"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

func toView(c *Cart) View {
	return View{
		ID:         c.ID,
		Items:      c.Items,
		ItemCount:  c.Count(),
		TotalCents: c.Total(),
		UpdatedAt:  c.UpdatedAt,
	}
}
