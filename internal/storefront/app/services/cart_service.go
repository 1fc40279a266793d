package services

import (
	"context"
	"strings"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/models"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

type CartService struct {
	cartRepo core.ICartRepo
	mylog    logger.Logger
}

func NewCartService(cartRepo core.ICartRepo, mylogger logger.Logger) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		mylog:    mylogger,
	}
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return xerrors.NewValidation("session", "must not be empty")
	}
	return nil
}

// Cart returns the persisted cart of the session.
func (cs *CartService) Cart(ctx context.Context, sessionID string) (models.Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return models.Cart{}, err
	}
	return cs.cartRepo.Load(ctx, sessionID)
}

func (cs *CartService) AddItem(ctx context.Context, sessionID string, product models.Product) (models.Cart, error) {
	mylog := cs.mylog.Action("cart_add_item")
	if err := validateSession(sessionID); err != nil {
		return models.Cart{}, err
	}
	if err := product.Validate(); err != nil {
		return models.Cart{}, xerrors.NewValidation("product", err.Error())
	}

	cart, err := cs.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}
	cart.Add(product)

	if err := cs.cartRepo.Save(ctx, sessionID, cart); err != nil {
		mylog.Error("Failed to save cart", err, "product_id", product.ID)
		return models.Cart{}, err
	}
	mylog.Debug("Item added", "product_id", product.ID, "item_count", cart.ItemCount())
	return cart, nil
}

// SetQuantity removes the line when quantity <= 0. Products not in the cart are ignored.
func (cs *CartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (models.Cart, error) {
	mylog := cs.mylog.Action("cart_set_quantity")
	if err := validateSession(sessionID); err != nil {
		return models.Cart{}, err
	}

	cart, err := cs.cartRepo.Load(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}
	if !cart.SetQuantity(productID, quantity) {
		return cart, nil
	}

	if err := cs.cartRepo.Save(ctx, sessionID, cart); err != nil {
		mylog.Error("Failed to save cart", err, "product_id", productID)
		return models.Cart{}, err
	}
	mylog.Debug("Quantity changed", "product_id", productID, "quantity", quantity)
	return cart, nil
}

func (cs *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	if err := cs.cartRepo.Save(ctx, sessionID, models.Cart{}); err != nil {
		cs.mylog.Action("cart_clear").Error("Failed to clear cart", err)
		return err
	}
	return nil
}

func (cs *CartService) ItemCount(ctx context.Context, sessionID string) (int, error) {
	cart, err := cs.Cart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}
