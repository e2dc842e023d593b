package models

import "time"

// Notification belongs to exactly one user. Created only by the dispatcher.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Message   string    `bson:"message" json:"message"`
	BookingID string    `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	IsRead    bool      `bson:"isRead" json:"isRead"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NotificationCounter holds the unread-notification count for one user.
// Invariant: Count equals the number of the user's notifications with
// IsRead == false after every committed operation sequence.
type NotificationCounter struct {
	UserID    string    `bson:"userId" json:"userId"`
	Count     int64     `bson:"count" json:"count"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
