package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusKitchen   Status = "kitchen"
	StatusPayment   Status = "payment"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusKitchen, StatusPayment, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether orders in this status still live in the active set.
func (s Status) Active() bool {
	return s == StatusKitchen || s == StatusPayment
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Order struct {
	ID            string          `json:"id"`
	Number        int64           `json:"order_number"`
	Customer      Customer        `json:"customer"`
	Items         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	IsDelivery    bool            `json:"is_delivery"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

// LogEntry is the immutable history record of a completed order.
type LogEntry struct {
	OrderNumber   int64           `json:"order_number"`
	DateTime      string          `json:"date_time"`
	CompletedAt   time.Time       `json:"completed_at"`
	CustomerName  string          `json:"customer_name"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Customer      Customer        `json:"customer"`
	Items         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	IsDelivery    bool            `json:"is_delivery"`
}

// LogSummary aggregates the history. Average is only meaningful when HasData is true.
type LogSummary struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Average decimal.Decimal `json:"average"`
	HasData bool            `json:"has_data"`
}
