package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"date-journal-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// TokenStore persists device push tokens
type TokenStore interface {
	Upsert(ctx context.Context, t *models.DeviceToken) error
	Delete(ctx context.Context, token string) error
}

// TokenService registers the devices that receive push notifications
type TokenService struct {
	tokens TokenStore
	now    func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(tokens TokenStore) *TokenService {
	return &TokenService{tokens: tokens, now: time.Now}
}

// Register binds token to actor. Registering a known token again moves it to
// actor and refreshes last_updated.
func (s *TokenService) Register(ctx context.Context, actor models.Identity, token string) (*models.DeviceToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, validationError("token is required")
	}
	now := s.now()
	t := &models.DeviceToken{Token: token, User: actor, CreatedAt: now, LastUpdated: now}
	if err := s.tokens.Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to register token: %w", err)
	}
	log.Info().Str("user", actor.String()).Msg("Device token registered")
	return t, nil
}

// Unregister forgets a token
func (s *TokenService) Unregister(ctx context.Context, token string) error {
	if err := s.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to unregister token: %w", err)
	}
	return nil
}
