package handle

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hamburgueria/internal/storefront/app/services"
	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/storefront/domain/models"
	"hamburgueria/internal/xpkg/logger"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	mylog   logger.Logger
}

func NewCatalogHandler(catalog *services.CatalogService, mylog logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, mylog: mylog}
}

func (ch *CatalogHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		products, err := ch.catalog.Products(ctx)
		if err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, products)
	}
}

func (ch *CatalogHandler) Categories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		categories, err := ch.catalog.Categories(ctx)
		if err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, categories)
	}
}

func (ch *CatalogHandler) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		if err := ch.catalog.Refresh(ctx); err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		products, err := ch.catalog.Products(ctx)
		if err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, products)
	}
}

func (ch *CatalogHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ProductRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		created, err := ch.catalog.AddProduct(ctx, models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Image:       req.Image,
		})
		if err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusCreated, created)
	}
}

func (ch *CatalogHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		if err := ch.catalog.DeleteProduct(ctx, chi.URLParam(r, "id")); err != nil {
			serviceError(w, ch.mylog.WithRequestID(ctx), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
