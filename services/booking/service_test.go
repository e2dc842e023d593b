package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "carhive/database/repository/booking"
	"carhive/models"
	"carhive/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	bookings          map[string]models.Booking
	additionalDrivers map[string]models.AdditionalDriver

	// ops records repository calls in order, for cascade-ordering checks.
	ops []string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:          make(map[string]models.Booking),
		additionalDrivers: make(map[string]models.AdditionalDriver),
	}
}

func (r *fakeBookingRepo) Create(_ context.Context, b models.Booking) (string, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()
	r.bookings[b.ID] = b
	r.ops = append(r.ops, "createBooking")
	return b.ID, nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b models.Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return errors.New("not found")
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	r.bookings[id] = b
	r.ops = append(r.ops, "updateStatus")
	return nil
}

func (r *fakeBookingRepo) UpdateStatusMany(_ context.Context, ids []string, status models.BookingStatus) error {
	for _, id := range ids {
		if b, ok := r.bookings[id]; ok {
			b.Status = status
			r.bookings[id] = b
		}
	}
	r.ops = append(r.ops, "updateStatusMany")
	return nil
}

func (r *fakeBookingRepo) GetStatuses(_ context.Context, ids []string) (map[string]models.BookingStatus, error) {
	statuses := make(map[string]models.BookingStatus)
	for _, id := range ids {
		if b, ok := r.bookings[id]; ok {
			statuses[id] = b.Status
		}
	}
	return statuses, nil
}

func (r *fakeBookingRepo) SetCancelRequest(_ context.Context, id string) error {
	b, ok := r.bookings[id]
	if !ok {
		return errors.New("not found")
	}
	b.CancelRequest = true
	r.bookings[id] = b
	return nil
}

func (r *fakeBookingRepo) GetAdditionalDriverIDs(_ context.Context, bookingIDs []string) ([]string, error) {
	r.ops = append(r.ops, "snapshotAdditionalDrivers")
	var ids []string
	for _, id := range bookingIDs {
		if b, ok := r.bookings[id]; ok && b.AdditionalDriverID != "" {
			ids = append(ids, b.AdditionalDriverID)
		}
	}
	return ids, nil
}

func (r *fakeBookingRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.ops = append(r.ops, "deleteBookings")
	var deleted int64
	for _, id := range ids {
		if _, ok := r.bookings[id]; ok {
			delete(r.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeBookingRepo) CreateAdditionalDriver(_ context.Context, d models.AdditionalDriver) (string, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	r.additionalDrivers[d.ID] = d
	r.ops = append(r.ops, "createAdditionalDriver")
	return d.ID, nil
}

func (r *fakeBookingRepo) DeleteAdditionalDrivers(_ context.Context, ids []string) error {
	r.ops = append(r.ops, "deleteAdditionalDrivers")
	for _, id := range ids {
		delete(r.additionalDrivers, id)
	}
	return nil
}

func (r *fakeBookingRepo) Search(_ context.Context, _ bookingRepo.SearchFilter, _, _ int64) (*bookingRepo.SearchResult, error) {
	return &bookingRepo.SearchResult{}, nil
}

type fakeCarRepo struct {
	cars map[string]models.Car
}

func (r *fakeCarRepo) Create(_ context.Context, c models.Car) (string, error) { return c.ID, nil }
func (r *fakeCarRepo) GetByID(_ context.Context, id string) (*models.Car, error) {
	if c, ok := r.cars[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *fakeCarRepo) GetBySupplier(_ context.Context, _ string) ([]models.Car, error) {
	return nil, nil
}

func (r *fakeCarRepo) Update(_ context.Context, _ models.Car) error { return nil }

func (r *fakeCarRepo) DeleteByID(_ context.Context, _ string) error { return nil }

type fakeUserRepo struct {
	users map[string]models.User
}

func (r *fakeUserRepo) Create(_ context.Context, u models.User) (string, error) { return u.ID, nil }
func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, _ models.User) error { return nil }

func (r *fakeUserRepo) SetFCMToken(_ context.Context, _ string, _ string) error { return nil }

func (r *fakeUserRepo) DeleteByID(_ context.Context, _ string) error { return nil }

// recordingNotifier captures dispatched notifications; failFor makes
// dispatch fail for one user to test per-item isolation.
type recordingNotifier struct {
	notified []string // user ids in dispatch order
	bookings []string
	failFor  string
}

func (n *recordingNotifier) Notify(_ context.Context, userID, _ string, bookingID string) error {
	if n.failFor != "" && userID == n.failFor {
		return errors.New("dispatch failed")
	}
	n.notified = append(n.notified, userID)
	n.bookings = append(n.bookings, bookingID)
	return nil
}

func (n *recordingNotifier) GetNotifications(_ context.Context, _ string, _ int64) ([]models.Notification, error) {
	return nil, nil
}

func (n *recordingNotifier) UnreadCount(_ context.Context, _ string) (int64, error) { return 0, nil }

func (n *recordingNotifier) MarkAsRead(_ context.Context, _ string, _ []string) (int64, error) {
	return 0, nil
}

func (n *recordingNotifier) MarkAsUnread(_ context.Context, _ string, _ []string) (int64, error) {
	return 0, nil
}

func (n *recordingNotifier) Delete(_ context.Context, _ string, _ []string) (int64, error) {
	return 0, nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func testCar() models.Car {
	return models.Car{
		ID:                    "car-1",
		Name:                  "Test Car",
		SupplierID:            "supplier-1",
		DayRate:               100,
		Cancellation:          20,
		Amendments:            models.OptionIncluded,
		TheftProtection:       10,
		CollisionDamageWaiver: models.OptionNotAvailable,
		FullInsurance:         models.OptionNotAvailable,
		AdditionalDriver:      5,
	}
}

func newTestService() (*DefaultBookingService, *fakeBookingRepo, *recordingNotifier, *recordingMailer) {
	repo := newFakeBookingRepo()
	notifier := &recordingNotifier{}
	mailer := &recordingMailer{}
	svc := &DefaultBookingService{
		Repo: repo,
		Cars: &fakeCarRepo{cars: map[string]models.Car{"car-1": testCar()}},
		Users: &fakeUserRepo{users: map[string]models.User{
			"driver-1":   {ID: "driver-1", Email: "driver@example.com"},
			"supplier-1": {ID: "supplier-1", Email: "supplier@example.com"},
		}},
		Notifier: notifier,
		Mailer:   mailer,
	}
	return svc, repo, notifier, mailer
}

func draft() CreateBookingRequest {
	return CreateBookingRequest{
		SupplierID:        "supplier-1",
		CarID:             "car-1",
		DriverID:          "driver-1",
		PickupLocationID:  "loc-1",
		DropOffLocationID: "loc-2",
		From:              time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
		To:                time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC),
		Status:            models.BookingStatusPending,
	}
}

func TestCreateRejectsInvalidRange(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := draft()
	req.From, req.To = req.To, req.From

	_, err := svc.Create(context.Background(), req)
	assert.True(t, utils.IsValidation(err))
}

func TestCreateRejectsUnofferedOption(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := draft()
	req.Options.FullInsurance = true

	_, err := svc.Create(context.Background(), req)
	assert.True(t, utils.IsValidation(err))
}

func TestCreateComputesPrice(t *testing.T) {
	svc, _, notifier, mailer := newTestService()
	req := draft()
	req.Options.Cancellation = true
	req.Options.TheftProtection = true

	b, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	// 2 days: base 200 + flat 20 + 10*2.
	assert.Equal(t, int64(240), b.Price)
	assert.Equal(t, models.BookingStatusPending, b.Status)

	// Creation never fires a status-change notification, only the
	// one-time confirmation emails.
	assert.Empty(t, notifier.notified)
	assert.ElementsMatch(t, []string{"driver@example.com", "supplier@example.com"}, mailer.sent)
}

func TestCreateKeepsPrePricedDraft(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := draft()
	price := int64(999)
	req.Price = &price

	b, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(999), b.Price)
}

func TestCreateLinksAdditionalDriverFirst(t *testing.T) {
	svc, repo, _, _ := newTestService()
	req := draft()
	req.Options.AdditionalDriver = true
	req.AdditionalDriver = &AdditionalDriverDraft{
		FullName: "Extra Driver",
		Email:    "extra@example.com",
	}

	b, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, b.AdditionalDriverID)
	assert.Contains(t, repo.additionalDrivers, b.AdditionalDriverID)
	assert.Equal(t, []string{"createAdditionalDriver", "createBooking"}, repo.ops)
}

func TestUpdateStatusIsIdempotent(t *testing.T) {
	svc, repo, notifier, _ := newTestService()
	b, err := svc.Create(context.Background(), draft())
	require.NoError(t, err)
	writesAfterCreate := len(repo.ops)

	// Same status: no write, no notification.
	updated, err := svc.UpdateStatus(context.Background(), b.ID, models.BookingStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, updated.Status)
	assert.Empty(t, notifier.notified)
	assert.Len(t, repo.ops, writesAfterCreate)

	// Two distinct changes: exactly two notifications, both to the driver.
	_, err = svc.UpdateStatus(context.Background(), b.ID, models.BookingStatusPaid)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), b.ID, models.BookingStatusReserved)
	require.NoError(t, err)
	assert.Equal(t, []string{"driver-1", "driver-1"}, notifier.notified)
	assert.Equal(t, []string{b.ID, b.ID}, notifier.bookings)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.UpdateStatus(context.Background(), "missing", models.BookingStatusPaid)
	assert.True(t, utils.IsNotFound(err))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.UpdateStatus(context.Background(), "any", models.BookingStatus("limbo"))
	assert.True(t, utils.IsValidation(err))
}

func TestBulkUpdateStatusNotifiesOnlyChanged(t *testing.T) {
	svc, _, notifier, _ := newTestService()
	ctx := context.Background()

	b1, err := svc.Create(ctx, draft())
	require.NoError(t, err)
	b2, err := svc.Create(ctx, draft())
	require.NoError(t, err)

	// b2 is already paid; only b1 changes.
	_, err = svc.UpdateStatus(ctx, b2.ID, models.BookingStatusPaid)
	require.NoError(t, err)
	notifier.notified = nil

	changed, err := svc.BulkUpdateStatus(ctx, []string{b1.ID, b2.ID}, models.BookingStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, []string{"driver-1"}, notifier.notified)
}

func TestBulkUpdateStatusIsolatesDispatchFailure(t *testing.T) {
	repo := newFakeBookingRepo()
	notifier := &recordingNotifier{failFor: "driver-fail"}
	svc := &DefaultBookingService{
		Repo:     repo,
		Cars:     &fakeCarRepo{cars: map[string]models.Car{"car-1": testCar()}},
		Users:    &fakeUserRepo{users: map[string]models.User{}},
		Notifier: notifier,
	}
	ctx := context.Background()

	mkBooking := func(driverID string) string {
		id, err := repo.Create(ctx, models.Booking{
			DriverID: driverID,
			CarID:    "car-1",
			Status:   models.BookingStatusPending,
		})
		require.NoError(t, err)
		return id
	}
	failing := mkBooking("driver-fail")
	ok1 := mkBooking("driver-a")
	ok2 := mkBooking("driver-b")

	changed, err := svc.BulkUpdateStatus(ctx, []string{failing, ok1, ok2}, models.BookingStatusCancelled)
	require.NoError(t, err, "one booking's dispatch failure must not fail the batch")
	assert.Equal(t, 3, changed)

	// The batch write stuck for every booking, including the failed dispatch.
	for _, id := range []string{failing, ok1, ok2} {
		b, _ := repo.GetByID(ctx, id)
		assert.Equal(t, models.BookingStatusCancelled, b.Status)
	}
	assert.Equal(t, []string{"driver-a", "driver-b"}, notifier.notified)
}

func TestRequestCancellation(t *testing.T) {
	svc, _, notifier, _ := newTestService()
	ctx := context.Background()

	req := draft()
	req.Options.Cancellation = true
	b, err := svc.Create(ctx, req)
	require.NoError(t, err)

	accepted, err := svc.RequestCancellation(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, []string{"supplier-1"}, notifier.notified, "cancellation notifies the supplier, not the driver")

	// Second request: no-op reported as not accepted, no second notification.
	accepted, err = svc.RequestCancellation(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Len(t, notifier.notified, 1)
}

func TestRequestCancellationRejectedWithoutOption(t *testing.T) {
	svc, _, _, _ := newTestService()
	b, err := svc.Create(context.Background(), draft())
	require.NoError(t, err)

	_, err = svc.RequestCancellation(context.Background(), b.ID)
	assert.True(t, utils.IsValidation(err))
}

func TestDeleteCascadesToLinkedAdditionalDrivers(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	withDriver := draft()
	withDriver.Options.AdditionalDriver = true
	withDriver.AdditionalDriver = &AdditionalDriverDraft{FullName: "Extra"}
	b1, err := svc.Create(ctx, withDriver)
	require.NoError(t, err)

	b2, err := svc.Create(ctx, draft())
	require.NoError(t, err)

	// An unrelated additional driver must survive the cascade.
	unrelatedID, err := repo.CreateAdditionalDriver(ctx, models.AdditionalDriver{FullName: "Unrelated"})
	require.NoError(t, err)
	repo.ops = nil

	deleted, err := svc.Delete(ctx, []string{b1.ID, b2.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	assert.NotContains(t, repo.additionalDrivers, b1.AdditionalDriverID)
	assert.Contains(t, repo.additionalDrivers, unrelatedID)

	// Linked ids must be snapshotted before the parent delete.
	assert.Equal(t, []string{"snapshotAdditionalDrivers", "deleteBookings", "deleteAdditionalDrivers"}, repo.ops)
}
