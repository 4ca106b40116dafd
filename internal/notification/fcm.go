package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender builds a sender from a service-account file or, when file is empty,
// from base64-encoded JSON credentials.
func NewFCMSender(ctx context.Context, credentialsFile, credentialsBase64 string) (*FCMSender, error) {
	var opt option.ClientOption
	if credentialsFile != "" {
		opt = option.WithCredentialsFile(credentialsFile)
	} else {
		credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("decode base64 credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(credentialsJSON)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, p Push) error {
	id, err := s.client.Send(ctx, buildMessage(p))
	if err != nil {
		return fmt.Errorf("send fcm message: %w", err)
	}
	slog.DebugContext(ctx, "fcm notification sent", "message_id", id, "type", p.Data["type"])
	return nil
}

func buildMessage(p Push) *messaging.Message {
	return &messaging.Message{
		Token: p.Token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}
}
