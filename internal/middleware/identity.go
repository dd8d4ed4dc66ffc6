package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"date-journal-backend/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityHeader selects which partner is acting
const IdentityHeader = "X-Identity"

// IdentityMiddleware resolves the acting identity from the X-Identity header,
// or from the "as" query parameter for clients that cannot set headers
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(IdentityHeader)
		if raw == "" {
			raw = r.URL.Query().Get("as")
		}
		if raw == "" {
			respondError(w, "X-Identity header required", http.StatusUnauthorized)
			return
		}

		id, err := models.ParseIdentity(raw)
		if err != nil {
			respondError(w, "Unknown identity", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// WithIdentity stores id in ctx
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity extracts the acting identity from context
func GetIdentity(ctx context.Context) models.Identity {
	id, ok := ctx.Value(identityKey).(models.Identity)
	if !ok {
		return ""
	}
	return id
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
