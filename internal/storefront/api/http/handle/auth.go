package handle

import (
	"net/http"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/xpkg/logger"
)

type AuthHandler struct {
	authn core.IAuthenticator
	mylog logger.Logger
}

func NewAuthHandler(authn core.IAuthenticator, mylog logger.Logger) *AuthHandler {
	return &AuthHandler{authn: authn, mylog: mylog}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := ah.mylog.WithRequestID(r.Context()).Action("staff_login")

		var req dto.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		token, err := ah.authn.Login(req.Password)
		if err != nil {
			mylog.Warn("Rejected staff login")
			serviceError(w, mylog, err)
			return
		}
		mylog.Info("Staff logged in")
		jsonResponse(w, http.StatusOK, dto.LoginResponse{Token: token})
	}
}

func (ah *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ah.authn.Logout(bearerToken(r))
		w.WriteHeader(http.StatusNoContent)
	}
}
