package notificationRepo

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

// MongoNotificationRepo implements NotificationRepository using MongoDB.
type MongoNotificationRepo struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

// NewMongoNotificationRepo creates a new NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	repo := &MongoNotificationRepo{
		coll:     database.Collection("notifications"),
		counters: database.Collection("notificationCounters"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoNotificationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isRead", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}

	_, err = r.counters.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create counter index: %w", err)
	}
	return nil
}

// Create inserts a new notification and returns its ID.
func (r *MongoNotificationRepo) Create(ctx context.Context, n models.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return "", fmt.Errorf("failed to insert notification: %w", err)
	}
	return n.ID, nil
}

// GetByID returns a notification by its ID.
func (r *MongoNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch notification %s: %w", id, err)
	}
	return &n, nil
}

// GetByUser returns a page of the user's notifications, newest first.
// Pages are 1-indexed.
func (r *MongoNotificationRepo) GetByUser(ctx context.Context, userID string, page, pageSize int64) ([]models.Notification, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *MongoNotificationRepo) CountUnread(ctx context.Context, userID string, ids []string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"userId": userID,
		"id":     bson.M{"$in": ids},
		"isRead": false,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// SetRead only touches documents in the opposite read state, so the returned
// modified count is exactly the number of actual transitions.
func (r *MongoNotificationRepo) SetRead(ctx context.Context, userID string, ids []string, read bool) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{
			"userId": userID,
			"id":     bson.M{"$in": ids},
			"isRead": !read,
		},
		bson.M{"$set": bson.M{"isRead": read, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update notification read state: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoNotificationRepo) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{
		"userId": userID,
		"id":     bson.M{"$in": ids},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoNotificationRepo) GetCounter(ctx context.Context, userID string) (*models.NotificationCounter, error) {
	var counter models.NotificationCounter
	err := r.counters.FindOne(ctx, bson.M{"userId": userID}).Decode(&counter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.NotificationCounter{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to fetch counter for user %s: %w", userID, err)
	}
	return &counter, nil
}

// IncrementCounter is a single atomic $inc upsert. Concurrent dispatches to
// the same user must not lose updates or create duplicate counter rows, so
// the filter's unique userId index plus the upsert carry the whole race.
func (r *MongoNotificationRepo) IncrementCounter(ctx context.Context, userID string, delta int64) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.NotificationCounter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$inc": bson.M{"count": delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter for user %s: %w", userID, err)
	}
	return counter.Count, nil
}
