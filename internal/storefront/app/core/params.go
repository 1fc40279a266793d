package core

type StorefrontParams struct {
	Port int
}

const (
	// in seconds for store and collaborator calls made by handlers
	WaitTime = 20

	KeyPrefix       = "hamburgueria:"
	CartKeyPrefix   = KeyPrefix + "cart:"
	OrdersKey       = KeyPrefix + "orders"
	LogsKey         = KeyPrefix + "logs"
	OrderCounterKey = KeyPrefix + "order_counter"
	ProductsKey     = KeyPrefix + "products"

	// pt-BR style timestamp shown in the history
	LogDateTimeLayout = "02/01/2006, 15:04:05"

	SessionHeader = "X-Session-ID"

	MaxCustomerNameLen = 100
	MaxAddressLen      = 200
)
