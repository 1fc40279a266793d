package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CompletedOrder is the message the storefront publishes on orders.completed.
type CompletedOrder struct {
	Action        string          `json:"action"`
	OrderID       string          `json:"id_pedido"`
	Customer      Client          `json:"cliente"`
	DeliveryType  string          `json:"tipo_entrega"`
	PaymentMethod string          `json:"forma_pagto"`
	Total         decimal.Decimal `json:"total"`
	ItemsSummary  string          `json:"resumo_itens"`
	Notes         string          `json:"obs"`
}

type Client struct {
	Name    string `json:"nome"`
	Phone   string `json:"telefone"`
	Address string `json:"endereco_rua"`
}

// Number parses the "#1001" style order id.
func (c CompletedOrder) Number() (int64, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(c.OrderID, "#"), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid order id %q", c.OrderID)
	}
	return n, nil
}
