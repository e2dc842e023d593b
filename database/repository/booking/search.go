package bookingRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"carhive/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// buildMatch translates the filter into the pre-join $match stage over raw
// booking fields. All criteria are conjunctive.
func buildMatch(filter SearchFilter) bson.M {
	match := bson.M{}

	if len(filter.SupplierIDs) > 0 {
		match["supplierId"] = bson.M{"$in": filter.SupplierIDs}
	}
	if len(filter.Statuses) > 0 {
		match["status"] = bson.M{"$in": filter.Statuses}
	}
	if filter.DriverID != "" {
		match["driverId"] = filter.DriverID
	}
	if filter.CarID != "" {
		match["carId"] = filter.CarID
	}
	if filter.PickupLocationID != "" {
		match["pickupLocationId"] = filter.PickupLocationID
	}
	if filter.DropOffLocationID != "" {
		match["dropOffLocationId"] = filter.DropOffLocationID
	}

	// Containment, not overlap: the booking window must lie inside the
	// filter window.
	if filter.From != nil {
		match["from"] = bson.M{"$gte": *filter.From}
	}
	if filter.To != nil {
		match["to"] = bson.M{"$lte": *filter.To}
	}

	// A keyword that is a valid record id short-circuits to an exact
	// booking lookup; name matching happens after the joins otherwise.
	if filter.Keyword != "" && isRecordID(filter.Keyword) {
		match["id"] = filter.Keyword
	}

	return match
}

// keywordMatch builds the post-join name match, or nil when the keyword is
// empty or already consumed as an exact id.
func keywordMatch(filter SearchFilter) bson.M {
	if filter.Keyword == "" || isRecordID(filter.Keyword) {
		return nil
	}
	pattern := regexp.QuoteMeta(filter.Keyword)
	regex := bson.M{"$regex": pattern, "$options": "i"}
	return bson.M{"$or": bson.A{
		bson.M{"supplier.fullName": regex},
		bson.M{"driver.fullName": regex},
		bson.M{"car.name": regex},
	}}
}

func isRecordID(s string) bool {
	return uuid.Validate(s) == nil
}

// localizedName resolves a joined location's display name for the given
// language: the matching language value if present, else the first value.
func localizedName(field, language string) bson.M {
	values := "$" + field + ".values"
	return bson.M{
		"$let": bson.M{
			"vars": bson.M{
				"resolved": bson.M{
					"$arrayElemAt": bson.A{
						bson.M{"$concatArrays": bson.A{
							bson.M{"$filter": bson.M{
								"input": bson.M{"$ifNull": bson.A{values, bson.A{}}},
								"as":    "v",
								"cond":  bson.M{"$eq": bson.A{"$$v.language", language}},
							}},
							bson.M{"$ifNull": bson.A{values, bson.A{}}},
						}},
						0,
					},
				},
			},
			"in": bson.M{"$ifNull": bson.A{"$$resolved.value", ""}},
		},
	}
}

func lookupStage(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": "id",
		"as":           as,
	}}}
}

func unwindStage(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.M{
		"path":                       "$" + path,
		"preserveNullAndEmptyArrays": true,
	}}}
}

// Search runs the filtered, joined, paginated listing query. The page of
// rows and the total count of the filtered set come out of one pipeline pass
// via $facet, so the two can never disagree.
func (r *MongoBookingRepo) Search(ctx context.Context, filter SearchFilter, page, pageSize int64) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	language := filter.Language
	if language == "" {
		language = "en"
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: buildMatch(filter)}},
		lookupStage("users", "supplierId", "supplier"),
		unwindStage("supplier"),
		lookupStage("users", "driverId", "driver"),
		unwindStage("driver"),
		lookupStage("cars", "carId", "car"),
		unwindStage("car"),
		lookupStage("locations", "pickupLocationId", "pickupLocation"),
		unwindStage("pickupLocation"),
		lookupStage("locations", "dropOffLocationId", "dropOffLocation"),
		unwindStage("dropOffLocation"),
	}

	if km := keywordMatch(filter); km != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: km}})
	}

	// Trim the joined documents to public projections and resolve
	// localized location names.
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{
		"_id":           0,
		"id":            1,
		"from":          1,
		"to":            1,
		"status":        1,
		"price":         1,
		"cancelRequest": 1,
		"createdAt":     1,
		"supplier": bson.M{
			"id":       "$supplier.id",
			"fullName": "$supplier.fullName",
			"avatar":   "$supplier.avatar",
		},
		"driver": bson.M{
			"id":       "$driver.id",
			"fullName": "$driver.fullName",
			"avatar":   "$driver.avatar",
		},
		"car": bson.M{
			"id":      "$car.id",
			"name":    "$car.name",
			"image":   "$car.image",
			"dayRate": "$car.dayRate",
		},
		"pickupLocation": bson.M{
			"id":   "$pickupLocation.id",
			"name": localizedName("pickupLocation", language),
		},
		"dropOffLocation": bson.M{
			"id":   "$dropOffLocation.id",
			"name": localizedName("dropOffLocation", language),
		},
	}}})

	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$facet", Value: bson.M{
			"rows": bson.A{
				bson.M{"$skip": (page - 1) * pageSize},
				bson.M{"$limit": pageSize},
			},
			"count": bson.A{
				bson.M{"$count": "total"},
			},
		}}},
	)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Aggregate(cctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("booking search aggregation failed: %w", err)
	}
	defer cursor.Close(cctx)

	var out []struct {
		Rows  []models.BookingListItem `bson:"rows"`
		Count []struct {
			Total int64 `bson:"total"`
		} `bson:"count"`
	}
	if err := cursor.All(cctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode booking search result: %w", err)
	}

	result := &SearchResult{Rows: []models.BookingListItem{}}
	if len(out) > 0 {
		if out[0].Rows != nil {
			result.Rows = out[0].Rows
		}
		if len(out[0].Count) > 0 {
			result.TotalCount = out[0].Count[0].Total
		}
	}
	return result, nil
}
