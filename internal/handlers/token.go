package handlers

import (
	"net/http"

	"date-journal-backend/internal/middleware"
	"date-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// TokenHandler handles device token registration
type TokenHandler struct {
	tokenService *services.TokenService
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenService *services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

// RegisterTokenRequest represents the request body for registering a device
type RegisterTokenRequest struct {
	Token string `json:"token"`
}

// RegisterToken handles POST /api/v1/tokens
func (h *TokenHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req RegisterTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.tokenService.Register(ctx, middleware.GetIdentity(ctx), req.Token)
	if err != nil {
		handleServiceError(w, r, err, "Failed to register token")
		return
	}
	respondJSON(w, t, http.StatusOK)
}

// UnregisterToken handles DELETE /api/v1/tokens/{token}
func (h *TokenHandler) UnregisterToken(w http.ResponseWriter, r *http.Request) {
	if err := h.tokenService.Unregister(r.Context(), chi.URLParam(r, "token")); err != nil {
		handleServiceError(w, r, err, "Failed to unregister token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
