package car

import (
	"context"
	"fmt"

	carRepo "carhive/database/repository/car"
	"carhive/models"
	"carhive/utils"
)

// CarService manages supplier fleets.
type CarService interface {
	Create(ctx context.Context, c models.Car) (*models.Car, error)
	Update(ctx context.Context, c models.Car) (*models.Car, error)
	GetByID(ctx context.Context, id string) (*models.Car, error)
	GetBySupplier(ctx context.Context, supplierID string) ([]models.Car, error)
	Delete(ctx context.Context, id string) error
}

// DefaultCarService is the production implementation.
type DefaultCarService struct {
	Repo carRepo.CarRepository
}

// validateRateCard rejects cars whose day rate or option values fall
// outside the -1/0/>0 sentinel scheme.
func validateRateCard(c models.Car) error {
	if c.DayRate < 0 {
		return utils.ValidationError{Msg: "day rate must be non-negative"}
	}
	options := map[string]int64{
		"cancellation":          c.Cancellation,
		"amendments":            c.Amendments,
		"theftProtection":       c.TheftProtection,
		"collisionDamageWaiver": c.CollisionDamageWaiver,
		"fullInsurance":         c.FullInsurance,
		"additionalDriver":      c.AdditionalDriver,
	}
	for name, v := range options {
		if v < models.OptionNotAvailable {
			return utils.ValidationError{Msg: fmt.Sprintf("option %s has invalid price %d", name, v)}
		}
	}
	return nil
}

func (s *DefaultCarService) Create(ctx context.Context, c models.Car) (*models.Car, error) {
	if c.SupplierID == "" {
		return nil, utils.ValidationError{Msg: "car requires a supplier"}
	}
	if err := validateRateCard(c); err != nil {
		return nil, err
	}

	id, err := s.Repo.Create(ctx, c)
	if err != nil {
		return nil, utils.PersistenceError{Op: "car create", Err: err}
	}
	c.ID = id
	return &c, nil
}

func (s *DefaultCarService) Update(ctx context.Context, c models.Car) (*models.Car, error) {
	if err := validateRateCard(c); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, utils.PersistenceError{Op: "car read", Err: err}
	}
	if existing == nil {
		return nil, utils.NotFoundError{Resource: "car", ID: c.ID}
	}

	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, utils.PersistenceError{Op: "car update", Err: err}
	}
	return &c, nil
}

func (s *DefaultCarService) GetByID(ctx context.Context, id string) (*models.Car, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.PersistenceError{Op: "car read", Err: err}
	}
	if c == nil {
		return nil, utils.NotFoundError{Resource: "car", ID: id}
	}
	return c, nil
}

func (s *DefaultCarService) GetBySupplier(ctx context.Context, supplierID string) ([]models.Car, error) {
	cars, err := s.Repo.GetBySupplier(ctx, supplierID)
	if err != nil {
		return nil, utils.PersistenceError{Op: "car list", Err: err}
	}
	return cars, nil
}

func (s *DefaultCarService) Delete(ctx context.Context, id string) error {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return utils.PersistenceError{Op: "car read", Err: err}
	}
	if c == nil {
		return utils.NotFoundError{Resource: "car", ID: id}
	}
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return utils.PersistenceError{Op: "car delete", Err: err}
	}
	return nil
}
