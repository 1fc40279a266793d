package handle

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hamburgueria/internal/storefront/app/services"
	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/storefront/domain/models"
	"hamburgueria/internal/xpkg/logger"
)

type OrderHandler struct {
	lifecycle *services.Lifecycle
	loc       *time.Location
	mylog     logger.Logger
}

func NewOrderHandler(lifecycle *services.Lifecycle, loc *time.Location, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{lifecycle: lifecycle, loc: loc, mylog: mylog}
}

func (oh *OrderHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SubmitOrderRequest
		if err := decodeJSON(r, &req); err != nil {
			oh.mylog.Action("parse_failed").Debug("Failed to parse order", "error", err.Error())
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		order, err := oh.lifecycle.SubmitOrder(ctx, sessionID(r), req)
		if err != nil {
			serviceError(w, oh.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusCreated, order)
	}
}

// List defaults to the kitchen queue when no status is given.
func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.Status(r.URL.Query().Get("status"))
		if status == "" {
			status = models.StatusKitchen
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		orders, err := oh.lifecycle.ListByStatus(ctx, status)
		if err != nil {
			serviceError(w, oh.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, orders)
	}
}

func (oh *OrderHandler) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		order, err := oh.lifecycle.MarkReady(ctx, chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, oh.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.OrderResponse{
			ID:          order.ID,
			OrderNumber: order.Number,
			Status:      order.Status,
			Total:       order.Total,
		})
	}
}

func (oh *OrderHandler) Finalize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.FinalizeRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		entry, err := oh.lifecycle.Finalize(ctx, chi.URLParam(r, "id"), req.PaymentMethod)
		if err != nil {
			serviceError(w, oh.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, entry)
	}
}

func (oh *OrderHandler) Receipt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		order, err := oh.lifecycle.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			serviceError(w, oh.mylog.WithRequestID(ctx), err)
			return
		}
		textResponse(w, http.StatusOK, services.OrderReceipt(order, oh.loc))
	}
}
