// Package pricing computes rental prices from a car's rate card, a date
// range and the selected options. Pure computation, no I/O.
package pricing

import (
	"fmt"
	"time"

	"carhive/models"
	"carhive/utils"
)

// Days returns the number of billable rental days for a date range: the
// ceiling of the span over 24h, never less than one day.
func Days(from, to time.Time) int64 {
	span := to.Sub(from)
	if span <= 0 {
		return 1
	}
	days := int64(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// ComputePrice computes the total price of a rental.
//
// Option price semantics: -1 means the option is not offered (selecting it
// is a validation error), 0 means included at no extra cost, any positive
// value is the surcharge. Cancellation and amendments are flat surcharges;
// the other four options are charged per rental day.
func ComputePrice(car *models.Car, from, to time.Time, sel models.BookingOptions) (int64, error) {
	if !from.Before(to) {
		return 0, utils.ValidationError{Msg: "booking date range is invalid: from must precede to"}
	}

	days := Days(from, to)
	total := car.DayRate * days

	flat := []struct {
		name     string
		value    int64
		selected bool
	}{
		{"cancellation", car.Cancellation, sel.Cancellation},
		{"amendments", car.Amendments, sel.Amendments},
	}
	for _, opt := range flat {
		surcharge, err := optionSurcharge(opt.name, opt.value, opt.selected)
		if err != nil {
			return 0, err
		}
		total += surcharge
	}

	perDay := []struct {
		name     string
		value    int64
		selected bool
	}{
		{"theftProtection", car.TheftProtection, sel.TheftProtection},
		{"collisionDamageWaiver", car.CollisionDamageWaiver, sel.CollisionDamageWaiver},
		{"fullInsurance", car.FullInsurance, sel.FullInsurance},
		{"additionalDriver", car.AdditionalDriver, sel.AdditionalDriver},
	}
	for _, opt := range perDay {
		surcharge, err := optionSurcharge(opt.name, opt.value, opt.selected)
		if err != nil {
			return 0, err
		}
		total += surcharge * days
	}

	if total < 0 {
		return 0, utils.ValidationError{Msg: "computed price is negative"}
	}
	return total, nil
}

// optionSurcharge resolves one option's surcharge from its sentinel value.
func optionSurcharge(name string, value int64, selected bool) (int64, error) {
	if !selected {
		return 0, nil
	}
	if value == models.OptionNotAvailable {
		return 0, utils.ValidationError{Msg: fmt.Sprintf("option %s is not offered on this car", name)}
	}
	if value == models.OptionIncluded {
		return 0, nil
	}
	return value, nil
}

// ValidateSelections checks that every selected option is offered by the
// car, without computing a price.
func ValidateSelections(car *models.Car, sel models.BookingOptions) error {
	checks := []struct {
		name     string
		value    int64
		selected bool
	}{
		{"cancellation", car.Cancellation, sel.Cancellation},
		{"amendments", car.Amendments, sel.Amendments},
		{"theftProtection", car.TheftProtection, sel.TheftProtection},
		{"collisionDamageWaiver", car.CollisionDamageWaiver, sel.CollisionDamageWaiver},
		{"fullInsurance", car.FullInsurance, sel.FullInsurance},
		{"additionalDriver", car.AdditionalDriver, sel.AdditionalDriver},
	}
	for _, c := range checks {
		if c.selected && !models.OptionOffered(c.value) {
			return utils.ValidationError{Msg: fmt.Sprintf("option %s is not offered on this car", c.name)}
		}
	}
	return nil
}
