package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// fcmMaxTokens is the multicast limit of the FCM API
const fcmMaxTokens = 500

type fcmClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMSender sends notifications through Firebase Cloud Messaging
type FCMSender struct {
	client fcmClient
}

// NewFCMSender creates an FCM sender from a service account file
func NewFCMSender(ctx context.Context, credentialsFile, projectID string) (*FCMSender, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}
	return &FCMSender{client: client}, nil
}

// SendMulticast implements Sender
func (s *FCMSender) SendMulticast(ctx context.Context, msg Message) (*BatchResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	out := &BatchResponse{}
	for _, tokens := range chunk(msg.Tokens, fcmMaxTokens) {
		res, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: tokens,
			Data:   msg.Data,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					Sound: "default",
				},
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Sound: "default",
					},
				},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to send multicast: %w", err)
		}

		for i, token := range tokens {
			r := SendResponse{Token: token}
			if i < len(res.Responses) && res.Responses[i] != nil {
				item := res.Responses[i]
				r.Success = item.Success
				r.MessageID = item.MessageID
				r.Error = item.Error
				r.Unregistered = item.Error != nil && messaging.IsUnregistered(item.Error)
			} else {
				r.Error = fmt.Errorf("no response for token")
			}
			out.Add(r)
		}
	}
	return out, nil
}
