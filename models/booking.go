package models

import "time"

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	BookingStatusVoid      BookingStatus = "void"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusDeposit   BookingStatus = "deposit"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusReserved  BookingStatus = "reserved"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValid reports whether s is a member of the status enum.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusVoid, BookingStatusPending, BookingStatusDeposit,
		BookingStatusPaid, BookingStatusReserved, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to
// another. Every transition between valid statuses is currently legal; the
// guard exists so constraints can be added without touching call sites.
func CanTransition(from, to BookingStatus) bool {
	return from.IsValid() && to.IsValid()
}

// BookingOptions are the six per-booking option selections, mirroring the
// car's option price fields. A selection may only be true when the car
// offers the option (value >= 0).
type BookingOptions struct {
	Cancellation          bool `bson:"cancellation" json:"cancellation"`
	Amendments            bool `bson:"amendments" json:"amendments"`
	TheftProtection       bool `bson:"theftProtection" json:"theftProtection"`
	CollisionDamageWaiver bool `bson:"collisionDamageWaiver" json:"collisionDamageWaiver"`
	FullInsurance         bool `bson:"fullInsurance" json:"fullInsurance"`
	AdditionalDriver      bool `bson:"additionalDriver" json:"additionalDriver"`
}

// Booking is a rental booking record.
type Booking struct {
	ID                 string         `bson:"id" json:"id"`
	SupplierID         string         `bson:"supplierId" json:"supplierId"`
	CarID              string         `bson:"carId" json:"carId"`
	DriverID           string         `bson:"driverId" json:"driverId"`
	PickupLocationID   string         `bson:"pickupLocationId" json:"pickupLocationId"`
	DropOffLocationID  string         `bson:"dropOffLocationId" json:"dropOffLocationId"`
	From               time.Time      `bson:"from" json:"from"`
	To                 time.Time      `bson:"to" json:"to"`
	Status             BookingStatus  `bson:"status" json:"status"`
	Options            BookingOptions `bson:"options" json:"options"`
	Price              int64          `bson:"price" json:"price"`
	CancelRequest      bool           `bson:"cancelRequest" json:"cancelRequest"`
	AdditionalDriverID string         `bson:"additionalDriverId,omitempty" json:"additionalDriverId,omitempty"`
	CreatedAt          time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// AdditionalDriver is the optional extra-driver record linked to a booking.
type AdditionalDriver struct {
	ID        string    `bson:"id" json:"id"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Birthdate time.Time `bson:"birthdate" json:"birthdate"`
	BookingID string    `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingListItem is a denormalized search result row. The joined supplier,
// driver, car and location objects are trimmed public projections.
type BookingListItem struct {
	ID              string         `bson:"id" json:"id"`
	Supplier        PublicUser     `bson:"supplier" json:"supplier"`
	Driver          PublicUser     `bson:"driver" json:"driver"`
	Car             PublicCar      `bson:"car" json:"car"`
	PickupLocation  PublicLocation `bson:"pickupLocation" json:"pickupLocation"`
	DropOffLocation PublicLocation `bson:"dropOffLocation" json:"dropOffLocation"`
	From            time.Time      `bson:"from" json:"from"`
	To              time.Time      `bson:"to" json:"to"`
	Status          BookingStatus  `bson:"status" json:"status"`
	Price           int64          `bson:"price" json:"price"`
	CancelRequest   bool           `bson:"cancelRequest" json:"cancelRequest"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
}
