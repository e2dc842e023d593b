package bookingRepo

import (
	"context"
	"time"

	"carhive/models"
)

// SearchFilter is the conjunctive filter set for booking listings. Zero
// values mean "no constraint".
type SearchFilter struct {
	SupplierIDs       []string
	Statuses          []models.BookingStatus
	DriverID          string
	CarID             string
	PickupLocationID  string
	DropOffLocationID string

	// From/To select bookings whose window is contained in the filter
	// window: booking.from >= From and booking.to <= To.
	From *time.Time
	To   *time.Time

	// Keyword is matched as an exact booking id when it parses as one,
	// otherwise as a case-insensitive substring of the supplier, driver or
	// car name.
	Keyword string

	// Language resolves location display names in the result rows.
	Language string
}

// SearchResult is one page of denormalized rows plus the total count of the
// filtered set before pagination.
type SearchResult struct {
	Rows       []models.BookingListItem `json:"rows"`
	TotalCount int64                    `json:"totalCount"`
}

// BookingRepository persists bookings and their optional additional-driver
// sub-records.
type BookingRepository interface {
	Create(ctx context.Context, b models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, b models.Booking) error

	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
	UpdateStatusMany(ctx context.Context, ids []string, status models.BookingStatus) error

	// GetStatuses returns the current status of each existing booking in ids.
	GetStatuses(ctx context.Context, ids []string) (map[string]models.BookingStatus, error)

	SetCancelRequest(ctx context.Context, id string) error

	// GetAdditionalDriverIDs returns the additional-driver ids linked to the
	// given bookings. Callers must snapshot these before deleting the
	// bookings, since the deletion destroys the linkage.
	GetAdditionalDriverIDs(ctx context.Context, bookingIDs []string) ([]string, error)

	DeleteMany(ctx context.Context, ids []string) (int64, error)

	CreateAdditionalDriver(ctx context.Context, d models.AdditionalDriver) (string, error)
	DeleteAdditionalDrivers(ctx context.Context, ids []string) error

	Search(ctx context.Context, filter SearchFilter, page, pageSize int64) (*SearchResult, error)
}
