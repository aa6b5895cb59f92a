package handlers

import (
	"errors"
	"net/http"

	"facegateway/internal/gateway"
	"facegateway/internal/http/middleware"
)

type UserHandler struct {
	Gateway *gateway.Gateway
}

// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Gateway.ListUsers(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GET /user (butuh bearer token)
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Gateway.UserByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		var gerr *gateway.Error
		if errors.As(err, &gerr) && gerr.Kind == gateway.KindNotFound {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "user not found"})
			return
		}
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
