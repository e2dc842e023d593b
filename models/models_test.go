package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusIsValid(t *testing.T) {
	for _, s := range []BookingStatus{
		BookingStatusVoid, BookingStatusPending, BookingStatusDeposit,
		BookingStatusPaid, BookingStatusReserved, BookingStatusCancelled,
	} {
		assert.True(t, s.IsValid(), "%s must be a valid status", s)
	}
	assert.False(t, BookingStatus("unknown").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestCanTransitionIsPermissive(t *testing.T) {
	// Every transition between enum members is currently legal.
	assert.True(t, CanTransition(BookingStatusCancelled, BookingStatusPaid))
	assert.True(t, CanTransition(BookingStatusVoid, BookingStatusReserved))
	assert.False(t, CanTransition(BookingStatusPaid, BookingStatus("limbo")))
}

func TestLocationName(t *testing.T) {
	loc := Location{Values: []LocationValue{
		{Language: "en", Value: "Lisbon Airport"},
		{Language: "fr", Value: "Aéroport de Lisbonne"},
	}}

	assert.Equal(t, "Aéroport de Lisbonne", loc.Name("fr"))
	assert.Equal(t, "Lisbon Airport", loc.Name("en"))
	assert.Equal(t, "Lisbon Airport", loc.Name("de"), "missing language falls back to the first value")
	assert.Equal(t, "", (&Location{}).Name("en"))
}

func TestOptionOffered(t *testing.T) {
	assert.False(t, OptionOffered(OptionNotAvailable))
	assert.True(t, OptionOffered(OptionIncluded))
	assert.True(t, OptionOffered(15))
}
