package models

import "time"

// User types. Suppliers own cars and receive booking notifications; drivers
// are the customers renting them.
const (
	UserTypeAdmin    = "admin"
	UserTypeSupplier = "supplier"
	UserTypeDriver   = "driver"
)

// User represents a platform user (driver, supplier or admin).
type User struct {
	ID           string    `bson:"id" json:"id"`
	FullName     string    `bson:"fullName" json:"fullName"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Type         string    `bson:"type" json:"type"`
	Avatar       string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Language     string    `bson:"language,omitempty" json:"language,omitempty"`
	EnableEmail  bool      `bson:"enableEmailNotifications" json:"enableEmailNotifications"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the trimmed projection of a user embedded in listing rows.
// Never carries credentials or contact info.
type PublicUser struct {
	ID       string `bson:"id" json:"id"`
	FullName string `bson:"fullName" json:"fullName"`
	Avatar   string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
