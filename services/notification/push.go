package notification

import (
	"context"
	"fmt"

	"carhive/utils"

	"firebase.google.com/go/v4/messaging"
)

// FCMPushSender delivers pushes through Firebase Cloud Messaging.
type FCMPushSender struct {
	Client *messaging.Client
}

// NewFCMPushSender wraps the globally initialized FCM client.
func NewFCMPushSender() *FCMPushSender {
	return &FCMPushSender{Client: utils.FCMClient}
}

func (s *FCMPushSender) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	if s.Client == nil {
		return "", fmt.Errorf("push: FCM client not initialized")
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	ticket, err := s.Client.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("push: failed to send FCM message: %w", err)
	}
	return ticket, nil
}
