package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// MongoOrderRepository implements domain.OrderRepository
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new order repository
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// ListByUser returns a user's orders plus the total count. Orders still in
// "new" status never produced a checkout, so they are hidden from the user
// regardless of any status filter.
func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string, opts domain.PageOptions) ([]*domain.Order, int64, error) {
	statusCond := bson.M{"$ne": domain.OrderStatusNew}
	if opts.Status != "" {
		statusCond["$eq"] = opts.Status
	}
	filter := bson.M{
		"user_id": userID,
		"status":  statusCond,
	}
	if opts.Type != "" {
		filter["type"] = opts.Type
	}
	return r.listPage(ctx, filter, opts)
}

// ListAdmin returns orders across all users with optional filters
func (r *MongoOrderRepository) ListAdmin(ctx context.Context, opts domain.PageOptions) ([]*domain.Order, int64, error) {
	filter := bson.M{}
	if opts.UserID != "" {
		filter["user_id"] = opts.UserID
	}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
	if opts.Type != "" {
		filter["type"] = opts.Type
	}
	return r.listPage(ctx, filter, opts)
}

// listPage runs the page query and the total count concurrently
func (r *MongoOrderRepository) listPage(ctx context.Context, filter bson.M, opts domain.PageOptions) ([]*domain.Order, int64, error) {
	sortDir := -1
	if opts.Order == domain.OrderAsc {
		sortDir = 1
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: sortDir}}).
		SetSkip(int64(opts.Skip())).
		SetLimit(int64(opts.Take))

	var (
		orders []*domain.Order
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := r.collection.Find(gctx, filter, findOpts)
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}
		defer cursor.Close(gctx)
		for cursor.Next(gctx) {
			var order domain.Order
			if err := cursor.Decode(&order); err != nil {
				return err
			}
			orders = append(orders, &order)
		}
		return cursor.Err()
	})
	g.Go(func() error {
		var err error
		total, err = r.collection.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count orders: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
