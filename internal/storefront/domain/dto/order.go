package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"hamburgueria/internal/storefront/domain/models"
)

const PickupAddress = "Retirada no Balcão"

type SubmitOrderRequest struct {
	Customer   models.Customer `json:"customer"`
	IsDelivery bool            `json:"is_delivery"`
}

type FinalizeRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type OrderResponse struct {
	ID          string          `json:"id"`
	OrderNumber int64           `json:"order_number"`
	Status      models.Status   `json:"status"`
	Total       decimal.Decimal `json:"total"`
}

// OrderPayload is what the remote order sink receives for a completed order.
// OrderID ("#<number>") is the same on every attempt for an order, so a sink
// that sees it twice treats the second delivery as a duplicate.
type OrderPayload struct {
	Action        string          `json:"action"`
	OrderID       string          `json:"id_pedido"`
	OrderNumber   int64           `json:"-"`
	Customer      PayloadClient   `json:"cliente"`
	DeliveryType  string          `json:"tipo_entrega"`
	PaymentMethod string          `json:"forma_pagto"`
	Total         decimal.Decimal `json:"total"`
	ItemsSummary  string          `json:"resumo_itens"`
	Notes         string          `json:"obs"`
}

type PayloadClient struct {
	Name    string `json:"nome"`
	Phone   string `json:"telefone"`
	Address string `json:"endereco_rua"`
}

func NewOrderPayload(order models.Order, paymentMethod string) OrderPayload {
	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%dx %s", item.Quantity, item.Product.Name))
	}

	deliveryType := "Retirada"
	address := PickupAddress
	if order.IsDelivery {
		deliveryType = "Delivery"
		address = order.Customer.Address
	}

	return OrderPayload{
		Action:      "create_order",
		OrderID:     fmt.Sprintf("#%d", order.Number),
		OrderNumber: order.Number,
		Customer: PayloadClient{
			Name:    order.Customer.Name,
			Phone:   order.Customer.Phone,
			Address: address,
		},
		DeliveryType:  deliveryType,
		PaymentMethod: paymentMethod,
		Total:         order.Total,
		ItemsSummary:  strings.Join(lines, "\n"),
	}
}
