package carRepo

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

// CarRepository persists supplier fleets.
type CarRepository interface {
	Create(ctx context.Context, car models.Car) (string, error)
	GetByID(ctx context.Context, id string) (*models.Car, error)
	GetBySupplier(ctx context.Context, supplierID string) ([]models.Car, error)
	Update(ctx context.Context, car models.Car) error
	DeleteByID(ctx context.Context, id string) error
}

// MongoCarRepo implements CarRepository using MongoDB.
type MongoCarRepo struct {
	coll *mongo.Collection
}

func NewMongoCarRepo() CarRepository {
	repo := &MongoCarRepo{coll: database.Collection("cars")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "supplierId", Value: 1}}},
	})
	if err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoCarRepo) Create(ctx context.Context, car models.Car) (string, error) {
	if car.ID == "" {
		car.ID = uuid.New().String()
	}
	car.CreatedAt = time.Now()
	car.UpdatedAt = car.CreatedAt

	if _, err := r.coll.InsertOne(ctx, car); err != nil {
		return "", fmt.Errorf("failed to insert car: %w", err)
	}
	return car.ID, nil
}

func (r *MongoCarRepo) GetByID(ctx context.Context, id string) (*models.Car, error) {
	var car models.Car
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&car); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch car %s: %w", id, err)
	}
	return &car, nil
}

func (r *MongoCarRepo) GetBySupplier(ctx context.Context, supplierID string) ([]models.Car, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"supplierId": supplierID})
	if err != nil {
		return nil, fmt.Errorf("failed to query cars for supplier %s: %w", supplierID, err)
	}
	defer cursor.Close(ctx)

	var cars []models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

func (r *MongoCarRepo) Update(ctx context.Context, car models.Car) error {
	car.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": car.ID}, bson.M{"$set": car})
	if err != nil {
		return fmt.Errorf("failed to update car %s: %w", car.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoCarRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete car %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
