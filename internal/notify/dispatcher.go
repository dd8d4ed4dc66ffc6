package notify

import (
	"context"
	"fmt"

	"date-journal-backend/internal/push"

	"github.com/rs/zerolog/log"
)

// TokenPruner removes device tokens the provider reported as unregistered
type TokenPruner interface {
	Delete(ctx context.Context, token string) error
}

// Dispatcher hands resolved notifications to the push provider
type Dispatcher struct {
	sender push.Sender
	pruner TokenPruner
}

// NewDispatcher creates a dispatcher. A nil pruner leaves dead tokens in place.
func NewDispatcher(sender push.Sender, pruner TokenPruner) *Dispatcher {
	return &Dispatcher{sender: sender, pruner: pruner}
}

// Dispatch sends n to tokens. With no tokens it returns immediately without
// calling the provider. Per-token failures are logged and do not make the
// dispatch fail; an error means the send call itself failed.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification, tokens []string) (*push.BatchResponse, error) {
	if len(tokens) == 0 {
		return &push.BatchResponse{}, nil
	}

	res, err := d.sender.SendMulticast(ctx, push.Message{
		Title:  n.Title,
		Body:   n.Body,
		Data:   n.Data,
		Tokens: tokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send %s notification: %w", n.Type, err)
	}

	log.Info().
		Str("type", n.Type).
		Str("target", n.Target.String()).
		Int("success_count", res.SuccessCount).
		Int("failure_count", res.FailureCount).
		Msg("Notification sent")

	for _, r := range res.Responses {
		if r.Success {
			continue
		}
		log.Warn().
			Err(r.Error).
			Str("type", n.Type).
			Str("token", r.Token).
			Bool("unregistered", r.Unregistered).
			Msg("Failed to send to token")
	}

	if d.pruner != nil {
		for _, token := range res.Unregistered() {
			if err := d.pruner.Delete(ctx, token); err != nil {
				log.Error().Err(err).Str("token", token).Msg("Failed to prune device token")
				continue
			}
			log.Info().Str("token", token).Msg("Pruned unregistered device token")
		}
	}

	return res, nil
}
