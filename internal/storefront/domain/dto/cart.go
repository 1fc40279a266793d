package dto

import (
	"github.com/shopspring/decimal"

	"hamburgueria/internal/storefront/domain/models"
)

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Lines     []models.CartLine `json:"lines"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	ItemCount int               `json:"item_count"`
}

func NewCartResponse(c models.Cart) CartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return CartResponse{
		Lines:     lines,
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
	}
}

type BadgesResponse struct {
	Cart    int `json:"cart"`
	Kitchen int `json:"kitchen"`
	Payment int `json:"payment"`
}
