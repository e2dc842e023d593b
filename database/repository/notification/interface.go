package notificationRepo

import (
	"context"

	"carhive/models"
)

// NotificationRepository persists notification records and the per-user
// unread counter.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (string, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	GetByUser(ctx context.Context, userID string, page, pageSize int64) ([]models.Notification, error)

	// CountUnread returns how many of the given notification ids are
	// currently unread for the user.
	CountUnread(ctx context.Context, userID string, ids []string) (int64, error)

	// SetRead flips isRead to the given value for the user's listed
	// notifications that are currently in the opposite state, and returns
	// the number of documents that actually changed.
	SetRead(ctx context.Context, userID string, ids []string, read bool) (int64, error)

	// DeleteMany removes the user's listed notifications and returns the
	// number deleted.
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)

	// GetCounter returns the user's counter, or a zero-count counter when
	// none exists yet.
	GetCounter(ctx context.Context, userID string) (*models.NotificationCounter, error)

	// IncrementCounter atomically adjusts the user's counter by delta,
	// creating the counter document when absent. Returns the new count.
	// Implementations must use an atomic increment primitive, never a
	// read-modify-write round trip.
	IncrementCounter(ctx context.Context, userID string, delta int64) (int64, error)
}
