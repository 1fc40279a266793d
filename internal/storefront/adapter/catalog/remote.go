package catalog

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"hamburgueria/internal/storefront/adapter/remote"
	"hamburgueria/internal/storefront/domain/models"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

// flexID accepts both numeric and string ids.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type remoteProduct struct {
	ID          flexID          `json:"id"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"preco"`
	Category    string          `json:"categoria"`
	Image       string          `json:"imagem_url"`
}

type productAction struct {
	Action      string          `json:"action"`
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"nome,omitempty"`
	Description string          `json:"descricao,omitempty"`
	Price       decimal.Decimal `json:"preco"`
	Category    string          `json:"category,omitempty"`
	Image       string          `json:"imagem_url,omitempty"`
}

// Remote reads the menu from the spreadsheet endpoint.
type Remote struct {
	client *remote.Client
	mylog  logger.Logger
}

func NewRemote(client *remote.Client, mylogger logger.Logger) *Remote {
	return &Remote{client: client, mylog: mylogger}
}

func (r *Remote) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var rows []remoteProduct
	if err := r.client.Get(ctx, &rows); err != nil {
		return nil, xerrors.Remote("fetch products", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, models.Product{
			ID:          string(row.ID),
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Category:    row.Category,
			Image:       row.Image,
		})
	}
	return products, nil
}

// AddProduct lets the endpoint allocate the id. When the response does not
// carry one the returned product has an empty id until the next refresh.
func (r *Remote) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var resp struct {
		ID flexID `json:"id"`
	}
	err := r.client.Post(ctx, productAction{
		Action:      "create_product",
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
	}, &resp)
	if err != nil {
		return models.Product{}, xerrors.Remote("create product", err)
	}
	p.ID = string(resp.ID)
	return p, nil
}

func (r *Remote) DeleteProduct(ctx context.Context, id string) error {
	if err := r.client.Post(ctx, productAction{Action: "delete_product", ID: id}, nil); err != nil {
		return xerrors.Remote("delete product", err)
	}
	return nil
}
