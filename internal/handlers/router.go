package handlers

import (
	"net/http"

	"date-journal-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Dates       *DateHandler
	Invitations *InvitationHandler
	Wishlist    *WishlistHandler
	Places      *PlaceHandler
	Tokens      *TokenHandler
	Stats       *StatsHandler
	WebSocket   *WebSocketHandler
}

// NewRouter wires the routes
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.IdentityMiddleware)

		r.Route("/dates", func(r chi.Router) {
			r.Get("/", h.Dates.ListDates)
			r.Post("/", h.Dates.CreateDate)
			r.Get("/{id}", h.Dates.GetDate)
			r.Patch("/{id}", h.Dates.UpdateDate)
			r.Post("/{id}/favorite", h.Dates.ToggleFavorite)
			r.Post("/{id}/comments", h.Dates.AddComment)
			r.Post("/{id}/voice-notes", h.Dates.AddVoiceNote)
			r.Post("/{id}/photos", h.Dates.AddPhotos)
		})

		r.Route("/invitations", func(r chi.Router) {
			r.Get("/", h.Invitations.ListInvitations)
			r.Post("/", h.Invitations.CreateInvitation)
			r.Post("/{id}/accept", h.Invitations.AcceptInvitation)
			r.Post("/{id}/view", h.Invitations.MarkViewed)
			r.Delete("/{id}", h.Invitations.DeleteInvitation)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist.ListItems)
			r.Post("/", h.Wishlist.AddItem)
			r.Post("/{id}/toggle", h.Wishlist.ToggleItem)
			r.Delete("/{id}", h.Wishlist.DeleteItem)
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/", h.Places.ListPlaces)
			r.Post("/", h.Places.AddPlace)
			r.Delete("/{id}", h.Places.DeletePlace)
		})

		r.Post("/tokens", h.Tokens.RegisterToken)
		r.Delete("/tokens/{token}", h.Tokens.UnregisterToken)

		r.Get("/milestones", h.Stats.ListMilestones)
		r.Get("/stats", h.Stats.GetStats)
	})

	r.With(middleware.IdentityMiddleware).Get("/ws", h.WebSocket.HandleWebSocket)

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Identity")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
