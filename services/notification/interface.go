package notification

import (
	"context"

	"carhive/models"
)

// NotificationService creates notification records, keeps the per-user
// unread counter consistent, and attempts best-effort delivery.
type NotificationService interface {
	// Notify inserts a notification for the user, increments the unread
	// counter atomically, then attempts email and push delivery. Delivery
	// failures never roll back the record or the counter.
	Notify(ctx context.Context, userID, message, bookingID string) error

	GetNotifications(ctx context.Context, userID string, page int64) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)

	// MarkAsRead / MarkAsUnread flip the read state of the listed
	// notifications and adjust the counter by the exact number of records
	// that actually changed state. Both return that number.
	MarkAsRead(ctx context.Context, userID string, ids []string) (int64, error)
	MarkAsUnread(ctx context.Context, userID string, ids []string) (int64, error)

	// Delete removes the listed notifications and decrements the counter
	// by the number of deleted records that were still unread.
	Delete(ctx context.Context, userID string, ids []string) (int64, error)
}

// PushSender delivers a push message to a device token. Implementations
// return a provider ticket/message id for logging only.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) (string, error)
}
