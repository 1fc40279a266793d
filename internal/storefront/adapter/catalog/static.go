package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/models"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

const imageBase = "https://images.unsplash.com/"

func houseMenu() []models.Product {
	item := func(id, name, description, price, category, image string) models.Product {
		return models.Product{
			ID:          id,
			Name:        name,
			Description: description,
			Price:       decimal.RequireFromString(price),
			Category:    category,
			Image:       imageBase + image + "?w=400&h=300&fit=crop",
		}
	}
	return []models.Product{
		item("1", "BIG-BASIC", "Hambúrguer artesanal com ingredientes selecionados", "12.99", "Burgers", "photo-1568901346375-23c9450c58cd"),
		item("2", "BIG-CLASSIC", "Hambúrguer clássico com queijo e molho especial", "15.00", "Burgers", "photo-1553979459-d2229ba7433b"),
		item("3", "BIG-BURGUER", "Hambúrguer especial da casa", "17.00", "Burgers", "photo-1594212699903-ec8a3eca50f5"),
		item("4", "BIG-SALADA", "Hambúrguer com salada fresca e ingredientes leves", "20.00", "Burgers", "photo-1520072959219-c595dc870360"),
		item("5", "BIG-DOUBLÉ", "Hambúrguer duplo com muito sabor", "25.00", "Burgers", "photo-1586190848861-99aa4a171e90"),
		item("6", "BIG-FOME", "Para quem está com muita fome", "30.00", "Burgers", "photo-1551782450-17144efb9c50"),
		item("7", "BIG-BACON", "Hambúrguer com bacon crocante", "33.00", "Burgers", "photo-1553979459-d2229ba7433b"),
		item("8", "BIG-MONSTER", "O maior hambúrguer da casa", "35.00", "Burgers", "photo-1550547660-d9450f859349"),
		item("9", "BATATA P", "Porção pequena de batatas fritas", "8.00", "Batatas", "photo-1573080496219-bb080dd4f877"),
		item("10", "BATATA M", "Porção média de batatas fritas", "10.00", "Batatas", "photo-1630384060421-cb20d0e0649d"),
		item("11", "BATATA G", "Porção grande de batatas fritas", "12.00", "Batatas", "photo-1518013431117-eb1465fa5752"),
	}
}

// Static serves the house menu from the local store. An empty stored list is
// seeded with the house menu on first read.
type Static struct {
	mu    sync.Mutex
	repo  core.IProductRepo
	newID func() string
	mylog logger.Logger
}

func NewStatic(repo core.IProductRepo, mylogger logger.Logger) *Static {
	return &Static{
		repo:  repo,
		newID: uuid.NewString,
		mylog: mylogger,
	}
}

func (s *Static) FetchProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Static) load(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return products, nil
	}

	products = houseMenu()
	if err := s.repo.Save(ctx, products); err != nil {
		return nil, err
	}
	s.mylog.Action("catalog_seed").Info("Seeded house menu", "products", len(products))
	return products, nil
}

func (s *Static) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return models.Product{}, err
	}

	p.ID = s.newID()
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return models.Product{}, xerrors.NewValidation("product", err.Error())
	}

	next := make([]models.Product, 0, len(products)+1)
	next = append(next, products...)
	next = append(next, p)
	if err := s.repo.Save(ctx, next); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *Static) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return err
	}

	next := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(products) {
		return fmt.Errorf("product %s: %w", id, xerrors.ErrNotFound)
	}
	return s.repo.Save(ctx, next)
}
