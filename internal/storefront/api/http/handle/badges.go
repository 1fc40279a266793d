package handle

import (
	"context"
	"net/http"

	"hamburgueria/internal/storefront/app/services"
	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/xpkg/logger"
)

type BadgesHandler struct {
	cart      *services.CartService
	lifecycle *services.Lifecycle
	mylog     logger.Logger
}

func NewBadgesHandler(cart *services.CartService, lifecycle *services.Lifecycle, mylog logger.Logger) *BadgesHandler {
	return &BadgesHandler{cart: cart, lifecycle: lifecycle, mylog: mylog}
}

// Get returns the navigation counters. Without a session the cart count is zero.
func (bh *BadgesHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()
		mylog := bh.mylog.WithRequestID(ctx)

		var resp dto.BadgesResponse
		if session := sessionID(r); session != "" {
			count, err := bh.cart.ItemCount(ctx, session)
			if err != nil {
				serviceError(w, mylog, err)
				return
			}
			resp.Cart = count
		}

		kitchen, payment, err := bh.lifecycle.Counts(ctx)
		if err != nil {
			serviceError(w, mylog, err)
			return
		}
		resp.Kitchen = kitchen
		resp.Payment = payment
		jsonResponse(w, http.StatusOK, resp)
	}
}

// HealthCheck checks one connection the storefront depends on.
type HealthCheck struct {
	Name  string
	Alive func(ctx context.Context) error
}

// Health reports every check as "ok" or "down". Any failing check turns the
// answer into 503 with status "degraded".
func Health(mylog logger.Logger, checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := requestContext(r)
		defer cancel()

		code := http.StatusOK
		resp := map[string]string{"status": "ok"}
		for _, c := range checks {
			if err := c.Alive(ctx); err != nil {
				mylog.WithRequestID(ctx).Action("health_check_failed").Warn("Dependency is down", "check", c.Name, "reason", err.Error())
				resp[c.Name] = "down"
				resp["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp[c.Name] = "ok"
		}
		jsonResponse(w, code, resp)
	}
}
