package handlers

import (
	"net/http"

	"date-journal-backend/internal/middleware"
	"date-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// WishlistHandler handles wishlist HTTP requests
type WishlistHandler struct {
	wishlistService *services.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// AddWishlistItemRequest represents the request body for a new wishlist item
type AddWishlistItemRequest struct {
	Title string `json:"title"`
}

// ListItems handles GET /api/v1/wishlist
func (h *WishlistHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlistService.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "Failed to list wishlist")
		return
	}
	respondJSON(w, map[string]interface{}{"items": items}, http.StatusOK)
}

// AddItem handles POST /api/v1/wishlist
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req AddWishlistItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.wishlistService.Add(ctx, middleware.GetIdentity(ctx), req.Title)
	if err != nil {
		handleServiceError(w, r, err, "Failed to add wishlist item")
		return
	}
	respondJSON(w, item, http.StatusCreated)
}

// ToggleItem handles POST /api/v1/wishlist/{id}/toggle
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item, err := h.wishlistService.Toggle(ctx, chi.URLParam(r, "id"), middleware.GetIdentity(ctx))
	if err != nil {
		handleServiceError(w, r, err, "Failed to toggle wishlist item")
		return
	}
	respondJSON(w, item, http.StatusOK)
}

// DeleteItem handles DELETE /api/v1/wishlist/{id}
func (h *WishlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlistService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err, "Failed to delete wishlist item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlaceHandler handles favorite place HTTP requests
type PlaceHandler struct {
	placeService *services.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(placeService *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

// ListPlaces handles GET /api/v1/places?type=
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.placeService.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		handleServiceError(w, r, err, "Failed to list places")
		return
	}
	respondJSON(w, map[string]interface{}{"places": places}, http.StatusOK)
}

// AddPlace handles POST /api/v1/places
func (h *PlaceHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req services.AddPlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.placeService.Add(ctx, middleware.GetIdentity(ctx), req)
	if err != nil {
		handleServiceError(w, r, err, "Failed to add place")
		return
	}
	respondJSON(w, p, http.StatusCreated)
}

// DeletePlace handles DELETE /api/v1/places/{id}
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	if err := h.placeService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err, "Failed to delete place")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
