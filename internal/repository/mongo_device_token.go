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

// MongoDeviceTokenRepository implements domain.DeviceTokenRepository
type MongoDeviceTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoDeviceTokenRepository creates a new device token repository
func NewMongoDeviceTokenRepository(db *mongo.Database) *MongoDeviceTokenRepository {
	return &MongoDeviceTokenRepository{
		collection: db.Collection("device_tokens"),
	}
}

// Upsert registers a token. The token string is the key: a token moving to
// another user account is reassigned rather than duplicated.
func (r *MongoDeviceTokenRepository) Upsert(ctx context.Context, dt *domain.DeviceToken) error {
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"user_id":    dt.UserID,
			"platform":   dt.Platform,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID().Hex(),
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"token": dt.Token}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

func (r *MongoDeviceTokenRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.DeviceToken, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []*domain.DeviceToken
	for cursor.Next(ctx) {
		var dt domain.DeviceToken
		if err := cursor.Decode(&dt); err != nil {
			return nil, err
		}
		tokens = append(tokens, &dt)
	}
	return tokens, cursor.Err()
}

func (r *MongoDeviceTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("failed to delete device token: %w", err)
	}
	return nil
}
