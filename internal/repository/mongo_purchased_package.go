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

// MongoPurchasedPackageRepository implements domain.PurchasedPackageRepository
type MongoPurchasedPackageRepository struct {
	collection *mongo.Collection
}

// NewMongoPurchasedPackageRepository creates a new purchased package repository
func NewMongoPurchasedPackageRepository(db *mongo.Database) *MongoPurchasedPackageRepository {
	return &MongoPurchasedPackageRepository{
		collection: db.Collection("purchased_packages"),
	}
}

func (r *MongoPurchasedPackageRepository) Create(ctx context.Context, pp *domain.PurchasedPackage) error {
	now := time.Now().UTC()
	pp.ID = primitive.NewObjectID().Hex()
	pp.CreatedAt = now
	pp.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, pp); err != nil {
		return fmt.Errorf("failed to create purchased package: %w", err)
	}
	return nil
}

func (r *MongoPurchasedPackageRepository) GetByID(ctx context.Context, id string) (*domain.PurchasedPackage, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByOrderID resolves the subscription currently pointing at the given
// originating order
func (r *MongoPurchasedPackageRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PurchasedPackage, error) {
	return r.findOne(ctx, bson.M{"order_id": orderID})
}

func (r *MongoPurchasedPackageRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.PurchasedPackage, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list purchased packages: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*domain.PurchasedPackage
	for cursor.Next(ctx) {
		var pp domain.PurchasedPackage
		if err := cursor.Decode(&pp); err != nil {
			return nil, err
		}
		result = append(result, &pp)
	}
	return result, cursor.Err()
}

// UpdateByOrderID overwrites the record keyed by its current order pointer.
// The filter uses the pointer's value before the roll-forward, so a record
// already repointed by a concurrent callback will not match again.
func (r *MongoPurchasedPackageRepository) UpdateByOrderID(ctx context.Context, orderID string, pp *domain.PurchasedPackage) error {
	pp.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"order_id":   pp.OrderID,
			"end_date":   pp.EndDate,
			"expired":    pp.Expired,
			"package":    pp.Package,
			"updated_at": pp.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"order_id": orderID}, update)
	if err != nil {
		return fmt.Errorf("failed to update purchased package: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoPurchasedPackageRepository) findOne(ctx context.Context, filter bson.M) (*domain.PurchasedPackage, error) {
	var pp domain.PurchasedPackage
	if err := r.collection.FindOne(ctx, filter).Decode(&pp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get purchased package: %w", err)
	}
	return &pp, nil
}
