package handle

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hamburgueria/internal/storefront/app/services"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

type HistoryHandler struct {
	history *services.HistoryService
	mylog   logger.Logger
}

func NewHistoryHandler(history *services.HistoryService, mylog logger.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, mylog: mylog}
}

func (hh *HistoryHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		entries, err := hh.history.List(ctx)
		if err != nil {
			serviceError(w, hh.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, entries)
	}
}

func (hh *HistoryHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		summary, err := hh.history.Summary(ctx)
		if err != nil {
			serviceError(w, hh.mylog.WithRequestID(ctx), err)
			return
		}
		jsonResponse(w, http.StatusOK, summary)
	}
}

func (hh *HistoryHandler) Receipt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(chi.URLParam(r, "number"), "#")
		number, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, xerrors.NewValidation("number", "must be an order number"))
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		entry, ok, err := hh.history.Find(ctx, number)
		if err != nil {
			serviceError(w, hh.mylog.WithRequestID(ctx), err)
			return
		}
		if !ok {
			jsonError(w, http.StatusNotFound, fmt.Errorf("order #%d: %w", number, xerrors.ErrNotFound))
			return
		}
		textResponse(w, http.StatusOK, services.LogReceipt(entry))
	}
}

// Clear requires confirm=true.
func (hh *HistoryHandler) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			jsonError(w, http.StatusBadRequest, xerrors.NewValidation("confirm", "must be true"))
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		if err := hh.history.Clear(ctx); err != nil {
			serviceError(w, hh.mylog.WithRequestID(ctx), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
