package push

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
	"golang.org/x/sync/errgroup"
)

// apnsConcurrency bounds the number of in-flight APNs requests
const apnsConcurrency = 8

type apnsClient interface {
	PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error)
}

// APNsSender sends notifications directly to Apple Push Notification service
type APNsSender struct {
	client apnsClient
	topic  string
}

// APNsOptions holds token based authentication settings
type APNsOptions struct {
	KeyFile    string
	KeyID      string
	TeamID     string
	Topic      string
	Production bool
}

// NewAPNsSender creates an APNs sender using a .p8 signing key
func NewAPNsSender(opts APNsOptions) (*APNsSender, error) {
	authKey, err := token.AuthKeyFromFile(opts.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load apns auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   opts.KeyID,
		TeamID:  opts.TeamID,
	})
	if opts.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNsSender{client: client, topic: opts.Topic}, nil
}

// SendMulticast implements Sender. APNs takes one device per request, so the
// requests run concurrently. The call fails as a whole only when no request
// reached Apple at all.
func (s *APNsSender) SendMulticast(ctx context.Context, msg Message) (*BatchResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	p := payload.NewPayload().AlertTitle(msg.Title).AlertBody(msg.Body).Sound("default")
	for k, v := range msg.Data {
		p.Custom(k, v)
	}

	results := make([]SendResponse, len(msg.Tokens))
	transportErrs := make([]error, len(msg.Tokens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(apnsConcurrency)
	for i, deviceToken := range msg.Tokens {
		g.Go(func() error {
			results[i].Token = deviceToken
			res, err := s.client.PushWithContext(gctx, &apns2.Notification{
				DeviceToken: deviceToken,
				Topic:       s.topic,
				Payload:     p,
			})
			if err != nil {
				results[i].Error = fmt.Errorf("failed to push: %w", err)
				transportErrs[i] = err
				return nil
			}
			if !res.Sent() {
				results[i].Error = fmt.Errorf("apns rejected token: %d %s", res.StatusCode, res.Reason)
				results[i].Unregistered = res.Reason == apns2.ReasonUnregistered ||
					res.Reason == apns2.ReasonBadDeviceToken
				return nil
			}
			results[i].Success = true
			results[i].MessageID = res.ApnsID
			return nil
		})
	}
	_ = g.Wait()

	reached := false
	for _, err := range transportErrs {
		if err == nil {
			reached = true
			break
		}
	}
	if !reached {
		return nil, fmt.Errorf("failed to reach apns: %w", transportErrs[0])
	}

	out := &BatchResponse{}
	for _, r := range results {
		out.Add(r)
	}
	return out, nil
}
