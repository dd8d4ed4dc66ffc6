package push

import (
	"context"
	"errors"
	"fmt"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

// expoMaxMessages is the number of messages Expo accepts per request
const expoMaxMessages = 100

type expoClient interface {
	PublishMultiple(messages []expo.PushMessage) ([]expo.PushResponse, error)
}

// ExpoSender sends notifications through the Expo push service
type ExpoSender struct {
	client expoClient
}

// NewExpoSender creates an Expo sender with the default client
func NewExpoSender() *ExpoSender {
	return &ExpoSender{client: expo.NewPushClient(nil)}
}

// SendMulticast implements Sender. One message is published per token so
// every ticket maps back to exactly one token. Tokens that are not Expo push
// tokens fail locally without reaching the service.
func (s *ExpoSender) SendMulticast(ctx context.Context, msg Message) (*BatchResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	results := make([]SendResponse, len(msg.Tokens))
	var (
		messages []expo.PushMessage
		index    []int
	)
	for i, raw := range msg.Tokens {
		results[i].Token = raw
		token, err := expo.NewExponentPushToken(raw)
		if err != nil {
			results[i].Error = fmt.Errorf("invalid expo push token: %w", err)
			results[i].Unregistered = true
			continue
		}
		messages = append(messages, expo.PushMessage{
			To:       []expo.ExponentPushToken{token},
			Title:    msg.Title,
			Body:     msg.Body,
			Data:     msg.Data,
			Sound:    "default",
			Priority: expo.HighPriority,
		})
		index = append(index, i)
	}

	for start := 0; start < len(messages); start += expoMaxMessages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+expoMaxMessages, len(messages))

		responses, err := s.client.PublishMultiple(messages[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to publish expo messages: %w", err)
		}

		for j := range messages[start:end] {
			r := &results[index[start+j]]
			if j >= len(responses) {
				r.Error = fmt.Errorf("no response for token")
				continue
			}
			res := responses[j]
			if err := res.ValidateResponse(); err != nil {
				r.Error = err
				var unregistered *expo.DeviceNotRegisteredError
				r.Unregistered = errors.As(err, &unregistered)
				continue
			}
			r.Success = true
			r.MessageID = res.ID
		}
	}

	out := &BatchResponse{}
	for _, r := range results {
		out.Add(r)
	}
	return out, nil
}
