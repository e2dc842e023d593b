package locationRepo

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

// LocationRepository persists pickup/drop-off locations.
type LocationRepository interface {
	Create(ctx context.Context, loc models.Location) (string, error)
	GetByID(ctx context.Context, id string) (*models.Location, error)
	GetAll(ctx context.Context) ([]models.Location, error)
	Update(ctx context.Context, loc models.Location) error
	DeleteByID(ctx context.Context, id string) error
}

// MongoLocationRepo implements LocationRepository using MongoDB.
type MongoLocationRepo struct {
	coll *mongo.Collection
}

func NewMongoLocationRepo() LocationRepository {
	repo := &MongoLocationRepo{coll: database.Collection("locations")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoLocationRepo) Create(ctx context.Context, loc models.Location) (string, error) {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	loc.CreatedAt = time.Now()
	loc.UpdatedAt = loc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, loc); err != nil {
		return "", fmt.Errorf("failed to insert location: %w", err)
	}
	return loc.ID, nil
}

func (r *MongoLocationRepo) GetByID(ctx context.Context, id string) (*models.Location, error) {
	var loc models.Location
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&loc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch location %s: %w", id, err)
	}
	return &loc, nil
}

func (r *MongoLocationRepo) GetAll(ctx context.Context) ([]models.Location, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locations, nil
}

func (r *MongoLocationRepo) Update(ctx context.Context, loc models.Location) error {
	loc.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": loc.ID}, bson.M{"$set": loc})
	if err != nil {
		return fmt.Errorf("failed to update location %s: %w", loc.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoLocationRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete location %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
