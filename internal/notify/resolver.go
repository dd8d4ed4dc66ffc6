package notify

import (
	"context"
	"fmt"

	"date-journal-backend/internal/models"
)

// TokenStore looks up registered device tokens
type TokenStore interface {
	ListByUser(ctx context.Context, user models.Identity) ([]string, error)
	ListAll(ctx context.Context) ([]string, error)
}

// Resolver maps a Target to device tokens
type Resolver struct {
	tokens TokenStore
}

// NewResolver creates a new recipient resolver
func NewResolver(tokens TokenStore) *Resolver {
	return &Resolver{tokens: tokens}
}

// Resolve returns the tokens of the target. No registered tokens is an empty
// result, not an error.
func (r *Resolver) Resolve(ctx context.Context, target Target) ([]string, error) {
	var (
		tokens []string
		err    error
	)
	if target.Broadcast {
		tokens, err = r.tokens.ListAll(ctx)
	} else {
		tokens, err = r.tokens.ListByUser(ctx, target.Identity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tokens for %s: %w", target, err)
	}
	return tokens, nil
}
