// Package push delivers one notification to many device tokens and reports
// the outcome of every token, aligned with the input order.
package push

import (
	"context"
	"errors"
)

// ErrNoTokens is returned by Validate for a message without recipients
var ErrNoTokens = errors.New("push message has no tokens")

// Message is a notification addressed to a set of device tokens
type Message struct {
	Title  string
	Body   string
	Data   map[string]string
	Tokens []string
}

// Validate checks the message before it reaches a provider
func (m Message) Validate() error {
	if len(m.Tokens) == 0 {
		return ErrNoTokens
	}
	return nil
}

// SendResponse is the outcome for one token
type SendResponse struct {
	Token        string
	Success      bool
	MessageID    string
	Error        error
	Unregistered bool
}

// BatchResponse holds one SendResponse per input token, in input order
type BatchResponse struct {
	SuccessCount int
	FailureCount int
	Responses    []SendResponse
}

// Add appends a token result and updates the counters
func (b *BatchResponse) Add(r SendResponse) {
	if r.Success {
		b.SuccessCount++
	} else {
		b.FailureCount++
	}
	b.Responses = append(b.Responses, r)
}

// Unregistered returns the tokens the provider no longer recognizes
func (b *BatchResponse) Unregistered() []string {
	var tokens []string
	for _, r := range b.Responses {
		if r.Unregistered {
			tokens = append(tokens, r.Token)
		}
	}
	return tokens
}

// Sender is a bulk push primitive. An error means the call itself failed and
// nothing is known about individual tokens.
type Sender interface {
	SendMulticast(ctx context.Context, msg Message) (*BatchResponse, error)
}

// chunk splits tokens into batches of at most size
func chunk(tokens []string, size int) [][]string {
	var batches [][]string
	for size < len(tokens) {
		tokens, batches = tokens[size:], append(batches, tokens[:size:size])
	}
	if len(tokens) > 0 {
		batches = append(batches, tokens)
	}
	return batches
}
