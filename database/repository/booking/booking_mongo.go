package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"carhive/database"
	"carhive/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll    *mongo.Collection
	drivers *mongo.Collection
}

// NewMongoBookingRepo creates a new BookingRepository backed by MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{
		coll:    database.Collection("bookings"),
		drivers: database.Collection("additionalDrivers"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "supplierId", Value: 1}}},
		{Keys: bson.D{{Key: "driverId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	_, err = r.drivers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create additional driver index: %w", err)
	}
	return nil
}

// Create inserts a new booking and returns its ID.
func (r *MongoBookingRepo) Create(ctx context.Context, b models.Booking) (string, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return "", fmt.Errorf("failed to insert booking: %w", err)
	}
	return b.ID, nil
}

// GetByID returns a booking by its ID, or nil when absent.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

// Update replaces the mutable fields of an existing booking.
func (r *MongoBookingRepo) Update(ctx context.Context, b models.Booking) error {
	b.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": b.ID}, bson.M{"$set": b})
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update status of booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateStatusMany applies the status to all ids in one batch write.
func (r *MongoBookingRepo) UpdateStatusMany(ctx context.Context, ids []string, status models.BookingStatus) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to bulk update booking status: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetStatuses(ctx context.Context, ids []string) (map[string]models.BookingStatus, error) {
	opts := options.Find().SetProjection(bson.M{"id": 1, "status": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking statuses: %w", err)
	}
	defer cursor.Close(ctx)

	statuses := make(map[string]models.BookingStatus, len(ids))
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking status: %w", err)
		}
		statuses[b.ID] = b.Status
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate booking statuses: %w", err)
	}
	return statuses, nil
}

func (r *MongoBookingRepo) SetCancelRequest(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"cancelRequest": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set cancel request on booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoBookingRepo) GetAdditionalDriverIDs(ctx context.Context, bookingIDs []string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"additionalDriverId": 1})
	cursor, err := r.coll.Find(ctx, bson.M{
		"id":                 bson.M{"$in": bookingIDs},
		"additionalDriverId": bson.M{"$exists": true, "$ne": ""},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch linked additional driver ids: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		if b.AdditionalDriverID != "" {
			ids = append(ids, b.AdditionalDriverID)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return ids, nil
}

func (r *MongoBookingRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings: %w", err)
	}
	return res.DeletedCount, nil
}

// CreateAdditionalDriver inserts an additional-driver record and returns its ID.
func (r *MongoBookingRepo) CreateAdditionalDriver(ctx context.Context, d models.AdditionalDriver) (string, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt

	if _, err := r.drivers.InsertOne(ctx, d); err != nil {
		return "", fmt.Errorf("failed to insert additional driver: %w", err)
	}
	return d.ID, nil
}

func (r *MongoBookingRepo) DeleteAdditionalDrivers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.drivers.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("failed to delete additional drivers: %w", err)
	}
	return nil
}
