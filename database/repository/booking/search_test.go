package bookingRepo

import (
	"testing"
	"time"

	"carhive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildMatchEmptyFilter(t *testing.T) {
	match := buildMatch(SearchFilter{})
	assert.Empty(t, match)
}

func TestBuildMatchConjunctiveFilters(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	match := buildMatch(SearchFilter{
		SupplierIDs:      []string{"s1", "s2"},
		Statuses:         []models.BookingStatus{models.BookingStatusPaid},
		DriverID:         "d1",
		CarID:            "c1",
		PickupLocationID: "l1",
		From:             &from,
		To:               &to,
	})

	assert.Equal(t, bson.M{"$in": []string{"s1", "s2"}}, match["supplierId"])
	assert.Equal(t, bson.M{"$in": []models.BookingStatus{models.BookingStatusPaid}}, match["status"])
	assert.Equal(t, "d1", match["driverId"])
	assert.Equal(t, "c1", match["carId"])
	assert.Equal(t, "l1", match["pickupLocationId"])

	// Containment: the booking window must lie inside the filter window.
	assert.Equal(t, bson.M{"$gte": from}, match["from"])
	assert.Equal(t, bson.M{"$lte": to}, match["to"])
}

// The date filter operators express containment, so a booking starting
// before filter.from fails the $gte bound even though the windows overlap.
func TestDateFilterExpressesContainment(t *testing.T) {
	bookingFrom := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	bookingTo := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	contains := func(filterFrom, filterTo time.Time) bool {
		return !bookingFrom.Before(filterFrom) && !bookingTo.After(filterTo)
	}

	assert.True(t, contains(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	))
	assert.False(t, contains(
		time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
	))
}

func TestKeywordAsRecordID(t *testing.T) {
	id := "0f81b357-02f5-4a3c-9d0a-0dce8032ed58"
	filter := SearchFilter{Keyword: id}

	match := buildMatch(filter)
	assert.Equal(t, id, match["id"], "a valid record id must become an exact booking lookup")
	assert.Nil(t, keywordMatch(filter), "the id keyword must not also match names")
}

func TestKeywordAsNameSearch(t *testing.T) {
	filter := SearchFilter{Keyword: "ali (co)"}

	match := buildMatch(filter)
	assert.NotContains(t, match, "id")

	km := keywordMatch(filter)
	require.NotNil(t, km)

	or, ok := km["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 3)

	// Case-insensitive substring with regex metacharacters escaped.
	first := or[0].(bson.M)["supplier.fullName"].(bson.M)
	assert.Equal(t, `ali \(co\)`, first["$regex"])
	assert.Equal(t, "i", first["$options"])
}

func TestKeywordEmpty(t *testing.T) {
	assert.Nil(t, keywordMatch(SearchFilter{}))
}
