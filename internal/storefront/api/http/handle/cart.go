package handle

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hamburgueria/internal/storefront/app/services"
	"hamburgueria/internal/storefront/domain/dto"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

type CartHandler struct {
	cart    *services.CartService
	catalog *services.CatalogService
	mylog   logger.Logger
}

func NewCartHandler(cart *services.CartService, catalog *services.CatalogService, mylog logger.Logger) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog, mylog: mylog}
}

func (ch *CartHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		cart, err := ch.cart.Cart(ctx, sessionID(r))
		if err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewCartResponse(cart))
	}
}

// AddItem resolves the product from the catalog so clients cannot set prices.
func (ch *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.AddItemRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.ProductID == "" {
			jsonError(w, http.StatusBadRequest, xerrors.NewValidation("product_id", "must not be empty"))
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()
		mylog := ch.mylog.WithRequestID(ctx)

		product, err := ch.catalog.Product(ctx, req.ProductID)
		if err != nil {
			serviceError(w, mylog, err)
			return
		}
		cart, err := ch.cart.AddItem(ctx, sessionID(r), product)
		if err != nil {
			serviceError(w, mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewCartResponse(cart))
	}
}

func (ch *CartHandler) SetQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SetQuantityRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		cart, err := ch.cart.SetQuantity(ctx, sessionID(r), chi.URLParam(r, "productID"), req.Quantity)
		if err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.NewCartResponse(cart))
	}
}

func (ch *CartHandler) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		if err := ch.cart.Clear(ctx, sessionID(r)); err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
