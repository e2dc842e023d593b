package booking

import (
	"context"
	"fmt"

	bookingRepo "carhive/database/repository/booking"
	carRepo "carhive/database/repository/car"
	userRepo "carhive/database/repository/user"
	"carhive/models"
	"carhive/services/notification"
	"carhive/services/pricing"
	"carhive/utils"

	"go.uber.org/zap"
)

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Cars     carRepo.CarRepository
	Users    userRepo.UserRepository
	Notifier notification.NotificationService
	Mailer   utils.Mailer
}

// Create validates and persists a booking draft. The additional-driver
// sub-record, when present, is created first so the booking can link it.
// No status-change notification fires on creation; the driver and supplier
// get a one-time confirmation email instead.
func (s *DefaultBookingService) Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if !req.From.Before(req.To) {
		return nil, utils.ValidationError{Msg: "booking date range is invalid: from must precede to"}
	}
	if !req.Status.IsValid() {
		return nil, utils.ValidationError{Msg: fmt.Sprintf("unknown booking status %q", req.Status)}
	}

	car, err := s.Cars.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, utils.PersistenceError{Op: "car read", Err: err}
	}
	if car == nil {
		return nil, utils.NotFoundError{Resource: "car", ID: req.CarID}
	}
	if err := pricing.ValidateSelections(car, req.Options); err != nil {
		return nil, err
	}

	price := int64(0)
	if req.Price != nil {
		price = *req.Price
	} else {
		price, err = pricing.ComputePrice(car, req.From, req.To, req.Options)
		if err != nil {
			return nil, err
		}
	}

	b := models.Booking{
		SupplierID:        req.SupplierID,
		CarID:             req.CarID,
		DriverID:          req.DriverID,
		PickupLocationID:  req.PickupLocationID,
		DropOffLocationID: req.DropOffLocationID,
		From:              req.From,
		To:                req.To,
		Status:            req.Status,
		Options:           req.Options,
		Price:             price,
	}

	if req.AdditionalDriver != nil {
		if !req.Options.AdditionalDriver {
			return nil, utils.ValidationError{Msg: "additional driver record supplied without selecting the option"}
		}
		driverID, err := s.Repo.CreateAdditionalDriver(ctx, models.AdditionalDriver{
			FullName:  req.AdditionalDriver.FullName,
			Email:     req.AdditionalDriver.Email,
			Phone:     req.AdditionalDriver.Phone,
			Birthdate: req.AdditionalDriver.Birthdate,
		})
		if err != nil {
			return nil, utils.PersistenceError{Op: "additional driver create", Err: err}
		}
		b.AdditionalDriverID = driverID
	}

	id, err := s.Repo.Create(ctx, b)
	if err != nil {
		return nil, utils.PersistenceError{Op: "booking create", Err: err}
	}
	b.ID = id

	s.sendConfirmationEmails(ctx, &b)

	created, err := s.Repo.GetByID(ctx, id)
	if err != nil || created == nil {
		return &b, nil
	}
	return created, nil
}

// sendConfirmationEmails mails both parties once at creation. Best-effort.
func (s *DefaultBookingService) sendConfirmationEmails(ctx context.Context, b *models.Booking) {
	if s.Mailer == nil {
		return
	}
	logger := utils.GetLogger()

	recipients := []string{b.DriverID, b.SupplierID}
	for _, userID := range recipients {
		user, err := s.Users.GetByID(ctx, userID)
		if err != nil || user == nil {
			logger.Warn("booking confirmation skipped: recipient lookup failed",
				zap.String("bookingId", b.ID), zap.String("userId", userID), zap.Error(err))
			continue
		}
		html := fmt.Sprintf(
			"<p>Booking %s is confirmed from %s to %s.</p>",
			b.ID, b.From.Format("2006-01-02"), b.To.Format("2006-01-02"),
		)
		if err := s.Mailer.Send(user.Email, "Booking confirmation", html); err != nil {
			logger.Warn("booking confirmation email failed",
				zap.String("bookingId", b.ID), zap.String("userId", userID),
				zap.Error(utils.DeliveryError{Channel: "email", Err: err}))
		}
	}
}

// UpdateStatus loads the current status and persists the new one. The
// driver notification fires exactly once per actual change.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !status.IsValid() {
		return nil, utils.ValidationError{Msg: fmt.Sprintf("unknown booking status %q", status)}
	}

	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.PersistenceError{Op: "booking read", Err: err}
	}
	if b == nil {
		return nil, utils.NotFoundError{Resource: "booking", ID: id}
	}

	if b.Status == status {
		return b, nil
	}
	if !models.CanTransition(b.Status, status) {
		return nil, utils.ValidationError{Msg: fmt.Sprintf("transition %s -> %s is not allowed", b.Status, status)}
	}

	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, utils.PersistenceError{Op: "booking status update", Err: err}
	}
	b.Status = status

	s.notifyDriver(ctx, b)
	return b, nil
}

// notifyDriver dispatches the status-change notification. Dispatch failure
// is logged and does not undo the committed status write.
func (s *DefaultBookingService) notifyDriver(ctx context.Context, b *models.Booking) {
	message := fmt.Sprintf("Your booking %s is now %s.", b.ID, b.Status)
	if err := s.Notifier.Notify(ctx, b.DriverID, message, b.ID); err != nil {
		utils.GetLogger().Warn("driver notification dispatch failed",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}

// BulkUpdateStatus snapshots the prior statuses, applies the batch write,
// then dispatches per changed booking with per-item failure isolation.
func (s *DefaultBookingService) BulkUpdateStatus(ctx context.Context, ids []string, status models.BookingStatus) (int, error) {
	if !status.IsValid() {
		return 0, utils.ValidationError{Msg: fmt.Sprintf("unknown booking status %q", status)}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	previous, err := s.Repo.GetStatuses(ctx, ids)
	if err != nil {
		return 0, utils.PersistenceError{Op: "booking status snapshot", Err: err}
	}

	if err := s.Repo.UpdateStatusMany(ctx, ids, status); err != nil {
		return 0, utils.PersistenceError{Op: "booking bulk status update", Err: err}
	}

	changed := 0
	for _, id := range ids {
		prev, ok := previous[id]
		if !ok || prev == status {
			continue
		}
		changed++
		b, err := s.Repo.GetByID(ctx, id)
		if err != nil || b == nil {
			utils.GetLogger().Warn("bulk notification skipped: booking reload failed",
				zap.String("bookingId", id), zap.Error(err))
			continue
		}
		s.notifyDriver(ctx, b)
	}
	return changed, nil
}

// RequestCancellation accepts a one-time cancellation request. A booking
// without the cancellation option rejects it; a repeated request is a no-op
// reported as not accepted.
func (s *DefaultBookingService) RequestCancellation(ctx context.Context, id string) (bool, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return false, utils.PersistenceError{Op: "booking read", Err: err}
	}
	if b == nil {
		return false, utils.NotFoundError{Resource: "booking", ID: id}
	}
	if !b.Options.Cancellation {
		return false, utils.ValidationError{Msg: "booking was made without the cancellation option"}
	}
	if b.CancelRequest {
		return false, nil
	}

	if err := s.Repo.SetCancelRequest(ctx, id); err != nil {
		return false, utils.PersistenceError{Op: "cancel request update", Err: err}
	}

	message := fmt.Sprintf("Cancellation requested for booking %s.", b.ID)
	if err := s.Notifier.Notify(ctx, b.SupplierID, message, b.ID); err != nil {
		utils.GetLogger().Warn("supplier notification dispatch failed",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
	return true, nil
}

// Delete removes bookings. Linked additional-driver ids are snapshotted
// before the parent delete, since the booking documents carry the only link.
func (s *DefaultBookingService) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	driverIDs, err := s.Repo.GetAdditionalDriverIDs(ctx, ids)
	if err != nil {
		return 0, utils.PersistenceError{Op: "additional driver snapshot", Err: err}
	}

	deleted, err := s.Repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, utils.PersistenceError{Op: "booking delete", Err: err}
	}

	if err := s.Repo.DeleteAdditionalDrivers(ctx, driverIDs); err != nil {
		return deleted, utils.PersistenceError{Op: "additional driver delete", Err: err}
	}
	return deleted, nil
}

func (s *DefaultBookingService) Search(ctx context.Context, filter bookingRepo.SearchFilter, page, pageSize int64) (*bookingRepo.SearchResult, error) {
	result, err := s.Repo.Search(ctx, filter, page, pageSize)
	if err != nil {
		return nil, utils.PersistenceError{Op: "booking search", Err: err}
	}
	return result, nil
}
