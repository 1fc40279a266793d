package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func product(id, price string) Product {
	return Product{ID: id, Name: "item " + id, Price: decimal.RequireFromString(price)}
}

func TestCartAddSameProductKeepsOneLine(t *testing.T) {
	var c Cart
	p := product("1", "12.99")
	for range 7 {
		c.Add(p)
	}

	assert.Len(t, c.Lines, 1)
	assert.Equal(t, 7, c.Lines[0].Quantity)
	assert.Equal(t, 7, c.ItemCount())
}

func TestCartSetQuantity(t *testing.T) {
	var c Cart
	c.Add(product("1", "12.99"))
	c.Add(product("1", "12.99"))
	c.Add(product("2", "5.00"))

	assert.True(t, c.SetQuantity("2", 4))
	assert.Equal(t, 6, c.ItemCount())

	before := c.ItemCount()
	assert.True(t, c.SetQuantity("1", 0))
	assert.Equal(t, before-2, c.ItemCount())
	assert.Len(t, c.Lines, 1)

	assert.False(t, c.SetQuantity("missing", 3))
	assert.False(t, c.SetQuantity("missing", 0))
	assert.Len(t, c.Lines, 1)
}

func TestCartSubtotalIsExact(t *testing.T) {
	var c Cart
	c.Add(product("1", "12.99"))
	c.Add(product("1", "12.99"))
	c.Add(product("2", "5.00"))

	assert.Equal(t, "30.98", c.Subtotal().StringFixed(2))

	var tenths Cart
	for range 10 {
		tenths.Add(product("x", "0.10"))
	}
	assert.True(t, tenths.Subtotal().Equal(decimal.NewFromInt(1)))
}

func TestCartLineValidate(t *testing.T) {
	assert.NoError(t, CartLine{Product: product("1", "1"), Quantity: 1}.Validate())
	assert.Error(t, CartLine{Product: product("1", "1"), Quantity: 0}.Validate())
	assert.Error(t, CartLine{Product: product("", "1"), Quantity: 1}.Validate())
	assert.Error(t, CartLine{Product: product("1", "-1"), Quantity: 1}.Validate())
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusKitchen.Active())
	assert.True(t, StatusPayment.Active())
	assert.False(t, StatusCompleted.Active())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("cooking").Valid())
}
