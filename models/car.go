package models

import "time"

// Option price sentinels. Every one of the six car options carries one of
// these three-way values.
const (
	// OptionNotAvailable means the option is not offered on this car.
	OptionNotAvailable int64 = -1
	// OptionIncluded means the option is offered at no extra cost.
	OptionIncluded int64 = 0
	// Any positive value is the extra cost: flat for cancellation and
	// amendments, per rental day for the other four.
)

// Car represents a rental car owned by a supplier.
type Car struct {
	ID         string `bson:"id" json:"id"`
	Name       string `bson:"name" json:"name"`
	SupplierID string `bson:"supplierId" json:"supplierId"`
	Image      string `bson:"image,omitempty" json:"image,omitempty"`

	// DayRate is the base price per rental day.
	DayRate int64 `bson:"dayRate" json:"dayRate"`

	// Flat-priced options.
	Cancellation int64 `bson:"cancellation" json:"cancellation"`
	Amendments   int64 `bson:"amendments" json:"amendments"`

	// Per-day priced options.
	TheftProtection       int64 `bson:"theftProtection" json:"theftProtection"`
	CollisionDamageWaiver int64 `bson:"collisionDamageWaiver" json:"collisionDamageWaiver"`
	FullInsurance         int64 `bson:"fullInsurance" json:"fullInsurance"`
	AdditionalDriver      int64 `bson:"additionalDriver" json:"additionalDriver"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OptionOffered reports whether an option price value denotes an offered
// option (included or paid).
func OptionOffered(value int64) bool {
	return value >= OptionIncluded
}

// PublicCar is the trimmed projection of a car embedded in listing rows.
type PublicCar struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Image   string `bson:"image,omitempty" json:"image,omitempty"`
	DayRate int64  `bson:"dayRate" json:"dayRate"`
}
