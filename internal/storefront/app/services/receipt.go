package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/storefront/domain/models"
)

const receiptWidth = 40

type receipt struct {
	number     int64
	date       string
	customer   models.Customer
	isDelivery bool
	items      []models.CartLine
	subtotal   decimal.Decimal
	fee        decimal.Decimal
	total      decimal.Decimal
	payment    string
}

// OrderReceipt renders an active order for the kitchen printer.
func OrderReceipt(order models.Order, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return receipt{
		number:     order.Number,
		date:       order.CreatedAt.In(loc).Format(core.LogDateTimeLayout),
		customer:   order.Customer,
		isDelivery: order.IsDelivery,
		items:      order.Items,
		subtotal:   order.Subtotal,
		fee:        order.DeliveryFee,
		total:      order.Total,
		payment:    order.PaymentMethod,
	}.render()
}

// LogReceipt reprints a completed order from the history.
func LogReceipt(entry models.LogEntry) string {
	return receipt{
		number:     entry.OrderNumber,
		date:       entry.DateTime,
		customer:   entry.Customer,
		isDelivery: entry.IsDelivery,
		items:      entry.Items,
		subtotal:   entry.Subtotal,
		fee:        entry.DeliveryFee,
		total:      entry.Total,
		payment:    entry.PaymentMethod,
	}.render()
}

func (r receipt) render() string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth)

	fmt.Fprintf(&b, "PEDIDO #%d\n", r.number)
	fmt.Fprintf(&b, "%s\n", r.date)
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "Cliente: %s\n", r.customer.Name)
	if r.customer.Phone != "" {
		fmt.Fprintf(&b, "Telefone: %s\n", r.customer.Phone)
	}
	if r.isDelivery {
		fmt.Fprintf(&b, "Entrega: %s\n", r.customer.Address)
	} else {
		fmt.Fprintf(&b, "Entrega: %s\n", dto.PickupAddress)
	}
	b.WriteString(rule + "\n")

	for _, item := range r.items {
		writeRow(&b, fmt.Sprintf("%dx %s", item.Quantity, item.Product.Name), item.Total())
	}
	b.WriteString(rule + "\n")

	writeRow(&b, "Subtotal", r.subtotal)
	if r.isDelivery {
		writeRow(&b, "Taxa de entrega", r.fee)
	}
	writeRow(&b, "TOTAL", r.total)

	if r.payment != "" {
		fmt.Fprintf(&b, "Pagamento: %s\n", strings.ToUpper(r.payment))
	}
	return b.String()
}

func writeRow(b *strings.Builder, label string, amount decimal.Decimal) {
	value := "R$ " + amount.StringFixed(2)
	pad := receiptWidth - len([]rune(label)) - len(value)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(label + strings.Repeat(" ", pad) + value + "\n")
}
