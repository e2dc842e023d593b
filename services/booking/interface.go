package booking

import (
	"context"
	"time"

	bookingRepo "carhive/database/repository/booking"
	"carhive/models"
)

// AdditionalDriverDraft is the optional extra-driver payload of a booking
// draft.
type AdditionalDriverDraft struct {
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthdate time.Time `json:"birthdate"`
}

// CreateBookingRequest is a booking draft. Price, when nil, is computed from
// the car's rate card; a pre-priced draft is persisted as-is.
type CreateBookingRequest struct {
	SupplierID        string                 `json:"supplierId"`
	CarID             string                 `json:"carId"`
	DriverID          string                 `json:"driverId"`
	PickupLocationID  string                 `json:"pickupLocationId"`
	DropOffLocationID string                 `json:"dropOffLocationId"`
	From              time.Time              `json:"from"`
	To                time.Time              `json:"to"`
	Status            models.BookingStatus   `json:"status"`
	Options           models.BookingOptions  `json:"options"`
	Price             *int64                 `json:"price,omitempty"`
	AdditionalDriver  *AdditionalDriverDraft `json:"additionalDriver,omitempty"`
}

// BookingService drives bookings through their lifecycle.
type BookingService interface {
	Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)

	// UpdateStatus persists the new status and notifies the driver exactly
	// once per actual change. Setting the current status again is an
	// idempotent no-op.
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)

	// BulkUpdateStatus applies the status to all ids as one batch write,
	// then notifies per booking whose prior status differed. One booking's
	// dispatch failure neither aborts its siblings nor rolls back the
	// batch. Returns the number of bookings whose status actually changed.
	BulkUpdateStatus(ctx context.Context, ids []string, status models.BookingStatus) (int, error)

	// RequestCancellation flags a one-time, customer-initiated cancellation
	// request and notifies the supplier. Returns false without error when
	// the request was already made.
	RequestCancellation(ctx context.Context, id string) (bool, error)

	// Delete removes bookings and cascades to their linked
	// additional-driver records.
	Delete(ctx context.Context, ids []string) (int64, error)

	Search(ctx context.Context, filter bookingRepo.SearchFilter, page, pageSize int64) (*bookingRepo.SearchResult, error)
}
