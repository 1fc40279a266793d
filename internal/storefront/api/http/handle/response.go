package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"hamburgueria/internal/storefront/app/core"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes an error response as JSON with the specified HTTP status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

func textResponse(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// serviceError maps the error kinds of the services onto status codes.
// Store failures are logged and hidden from the client.
func serviceError(w http.ResponseWriter, mylog logger.Logger, err error) {
	switch {
	case errors.Is(err, xerrors.ErrValidation):
		jsonError(w, http.StatusBadRequest, err)
	case errors.Is(err, xerrors.ErrNotFound):
		jsonError(w, http.StatusNotFound, err)
	case errors.Is(err, xerrors.ErrState):
		jsonError(w, http.StatusConflict, err)
	case errors.Is(err, xerrors.ErrRemote):
		jsonError(w, http.StatusBadGateway, err)
	case errors.Is(err, xerrors.ErrUnauthorized):
		jsonError(w, http.StatusUnauthorized, err)
	case errors.Is(err, context.DeadlineExceeded):
		jsonError(w, http.StatusGatewayTimeout, errors.New("request timed out"))
	default:
		mylog.Error("Request failed", err)
		jsonError(w, http.StatusInternalServerError, xerrors.ErrPersistence)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return xerrors.NewValidation("body", "failed to parse JSON")
	}
	return nil
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), core.WaitTime*time.Second)
}

// sessionID reads the cart session from the header or the session query param.
func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(core.SessionHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("session"))
}
