package services

import (
	"errors"
	"fmt"

	"date-journal-backend/internal/events"
)

// ErrValidation is wrapped by every request validation failure
var ErrValidation = errors.New("validation failed")

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Publisher receives every committed change
type Publisher interface {
	Publish(change events.Change)
}

// NopPublisher discards changes
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(events.Change) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return NopPublisher{}
	}
	return p
}
