package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	Image       string          `json:"image,omitempty"`
}

func (p Product) Validate() error {
	if p.ID == "" {
		return errors.New("product id is empty")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s has negative price %s", p.ID, p.Price)
	}
	return nil
}

type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) Validate() error {
	if err := l.Product.Validate(); err != nil {
		return err
	}
	if l.Quantity < 1 {
		return fmt.Errorf("product %s has quantity %d", l.Product.ID, l.Quantity)
	}
	return nil
}

// Cart keeps at most one line per product id, in insertion order.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) index(productID string) int {
	for i, l := range c.Lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add increments the line for product or appends a new line with quantity 1.
func (c *Cart) Add(product Product) {
	if i := c.index(product.ID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, CartLine{Product: product, Quantity: 1})
}

// SetQuantity removes the line when quantity <= 0. Unknown ids are ignored.
// It reports whether the cart changed.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return true
	}
	if c.Lines[i].Quantity == quantity {
		return false
	}
	c.Lines[i].Quantity = quantity
	return true
}

func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.Lines)
}

func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func Subtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}
