package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMiniAppRepository implements domain.MiniAppRepository
type MongoMiniAppRepository struct {
	collection *mongo.Collection
}

// NewMongoMiniAppRepository creates a new mini-app repository
func NewMongoMiniAppRepository(db *mongo.Database) *MongoMiniAppRepository {
	return &MongoMiniAppRepository{
		collection: db.Collection("mini_apps"),
	}
}

func (r *MongoMiniAppRepository) Create(ctx context.Context, app *domain.MiniApp) error {
	now := time.Now().UTC()
	app.ID = primitive.NewObjectID().Hex()
	app.CreatedAt = now
	app.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, app); err != nil {
		return fmt.Errorf("failed to create mini app: %w", err)
	}
	return nil
}

func (r *MongoMiniAppRepository) GetByID(ctx context.Context, id string) (*domain.MiniApp, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoMiniAppRepository) GetByCode(ctx context.Context, code string) (*domain.MiniApp, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *MongoMiniAppRepository) List(ctx context.Context) ([]*domain.MiniApp, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "level", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list mini apps: %w", err)
	}
	defer cursor.Close(ctx)

	var apps []*domain.MiniApp
	for cursor.Next(ctx) {
		var app domain.MiniApp
		if err := cursor.Decode(&app); err != nil {
			return nil, err
		}
		apps = append(apps, &app)
	}
	return apps, cursor.Err()
}

func (r *MongoMiniAppRepository) Update(ctx context.Context, app *domain.MiniApp) error {
	app.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":               app.Name,
			"code":               app.Code,
			"ios_bundle_url":     app.IOSBundleURL,
			"android_bundle_url": app.AndroidBundleURL,
			"level":              app.Level,
			"updated_at":         app.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": app.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update mini app: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoMiniAppRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete mini app: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoMiniAppRepository) findOne(ctx context.Context, filter bson.M) (*domain.MiniApp, error) {
	var app domain.MiniApp
	if err := r.collection.FindOne(ctx, filter).Decode(&app); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mini app: %w", err)
	}
	return &app, nil
}
