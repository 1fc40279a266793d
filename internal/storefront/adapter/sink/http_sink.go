package sink

import (
	"context"

	"hamburgueria/internal/storefront/adapter/remote"
	"hamburgueria/internal/storefront/domain/dto"
)

// HTTP posts completed orders to the spreadsheet endpoint. Success means the
// request went through with a non-error status; the body is not read.
type HTTP struct {
	client *remote.Client
}

func NewHTTP(client *remote.Client) *HTTP {
	return &HTTP{client: client}
}

func (h *HTTP) Submit(ctx context.Context, payload dto.OrderPayload) error {
	return h.client.Post(ctx, payload, nil)
}
