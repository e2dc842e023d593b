package pricing

import (
	"testing"
	"time"

	"carhive/models"
	"carhive/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDays(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int64
	}{
		{"exactly one day", "2024-01-01T10:00:00Z", "2024-01-02T10:00:00Z", 1},
		{"partial day rounds up to one", "2024-01-01T10:00:00Z", "2024-01-02T09:00:00Z", 1},
		{"one day plus an hour rounds to two", "2024-01-01T10:00:00Z", "2024-01-02T11:00:00Z", 2},
		{"exactly three days", "2024-03-01T00:00:00Z", "2024-03-04T00:00:00Z", 3},
		{"under a day floors to one", "2024-01-01T10:00:00Z", "2024-01-01T12:00:00Z", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Days(date(tt.from), date(tt.to)))
		})
	}
}

func baseCar() *models.Car {
	return &models.Car{
		ID:                    "car-1",
		DayRate:               100,
		Cancellation:          models.OptionNotAvailable,
		Amendments:            models.OptionNotAvailable,
		TheftProtection:       models.OptionNotAvailable,
		CollisionDamageWaiver: models.OptionNotAvailable,
		FullInsurance:         models.OptionNotAvailable,
		AdditionalDriver:      models.OptionNotAvailable,
	}
}

func TestComputePriceBase(t *testing.T) {
	car := baseCar()
	price, err := ComputePrice(car, date("2024-01-01T10:00:00Z"), date("2024-01-03T10:00:00Z"), models.BookingOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(200), price)
}

func TestComputePriceRejectsBadRange(t *testing.T) {
	car := baseCar()
	from := date("2024-01-02T10:00:00Z")
	to := date("2024-01-01T10:00:00Z")

	_, err := ComputePrice(car, from, to, models.BookingOptions{})
	assert.True(t, utils.IsValidation(err))

	_, err = ComputePrice(car, from, from, models.BookingOptions{})
	assert.True(t, utils.IsValidation(err))
}

// Exercises the {-1, 0, >0} x {selected, unselected} matrix for each of the
// six options over a two-day rental.
func TestComputePriceOptionMatrix(t *testing.T) {
	from := date("2024-01-01T00:00:00Z")
	to := date("2024-01-03T00:00:00Z") // 2 days, base 200

	setValue := func(car *models.Car, option string, v int64) {
		switch option {
		case "cancellation":
			car.Cancellation = v
		case "amendments":
			car.Amendments = v
		case "theftProtection":
			car.TheftProtection = v
		case "collisionDamageWaiver":
			car.CollisionDamageWaiver = v
		case "fullInsurance":
			car.FullInsurance = v
		case "additionalDriver":
			car.AdditionalDriver = v
		}
	}
	setSelected := func(sel *models.BookingOptions, option string) {
		switch option {
		case "cancellation":
			sel.Cancellation = true
		case "amendments":
			sel.Amendments = true
		case "theftProtection":
			sel.TheftProtection = true
		case "collisionDamageWaiver":
			sel.CollisionDamageWaiver = true
		case "fullInsurance":
			sel.FullInsurance = true
		case "additionalDriver":
			sel.AdditionalDriver = true
		}
	}

	flatOptions := map[string]bool{"cancellation": true, "amendments": true}

	options := []string{
		"cancellation", "amendments", "theftProtection",
		"collisionDamageWaiver", "fullInsurance", "additionalDriver",
	}
	values := []int64{-1, 0, 5, 100}

	for _, option := range options {
		for _, value := range values {
			for _, selected := range []bool{false, true} {
				car := baseCar()
				setValue(car, option, value)
				var sel models.BookingOptions
				if selected {
					setSelected(&sel, option)
				}

				price, err := ComputePrice(car, from, to, sel)

				switch {
				case selected && value == models.OptionNotAvailable:
					assert.True(t, utils.IsValidation(err),
						"selecting unoffered %s must be rejected", option)
				case !selected || value == models.OptionIncluded:
					require.NoError(t, err)
					assert.Equal(t, int64(200), price,
						"%s value=%d selected=%v must add nothing", option, value, selected)
				default:
					require.NoError(t, err)
					expected := int64(200) + value
					if !flatOptions[option] {
						expected = 200 + value*2
					}
					assert.Equal(t, expected, price,
						"%s value=%d must add its surcharge", option, value)
				}
			}
		}
	}
}

func TestComputePriceCombinedOptions(t *testing.T) {
	car := baseCar()
	car.Cancellation = 30   // flat
	car.Amendments = 0      // included
	car.TheftProtection = 9 // per day
	car.FullInsurance = 20  // per day
	sel := models.BookingOptions{
		Cancellation:    true,
		Amendments:      true,
		TheftProtection: true,
		FullInsurance:   true,
	}

	// 3 days: base 300 + 30 + 0 + 9*3 + 20*3
	price, err := ComputePrice(car, date("2024-05-01T08:00:00Z"), date("2024-05-04T08:00:00Z"), sel)
	require.NoError(t, err)
	assert.Equal(t, int64(417), price)
}

func TestValidateSelections(t *testing.T) {
	car := baseCar()
	car.Cancellation = 0
	car.TheftProtection = 10

	assert.NoError(t, ValidateSelections(car, models.BookingOptions{Cancellation: true, TheftProtection: true}))

	err := ValidateSelections(car, models.BookingOptions{FullInsurance: true})
	assert.True(t, utils.IsValidation(err))
}
