package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoServiceRepository implements domain.ServiceRepository
type MongoServiceRepository struct {
	collection *mongo.Collection
}

// NewMongoServiceRepository creates a new service repository
func NewMongoServiceRepository(db *mongo.Database) *MongoServiceRepository {
	return &MongoServiceRepository{
		collection: db.Collection("services"),
	}
}

func (r *MongoServiceRepository) Create(ctx context.Context, svc *domain.Service) error {
	now := time.Now().UTC()
	svc.ID = primitive.NewObjectID().Hex()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, svc); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *MongoServiceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	var svc domain.Service
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *MongoServiceRepository) List(ctx context.Context) ([]*domain.Service, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*domain.Service
	for cursor.Next(ctx) {
		var svc domain.Service
		if err := cursor.Decode(&svc); err != nil {
			return nil, err
		}
		services = append(services, &svc)
	}
	return services, cursor.Err()
}

func (r *MongoServiceRepository) Update(ctx context.Context, svc *domain.Service) error {
	svc.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":       svc.Name,
			"type":       svc.Type,
			"config":     svc.Config,
			"updated_at": svc.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": svc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoServiceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
