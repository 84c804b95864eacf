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
	"golang.org/x/sync/errgroup"
)

// MongoRegistrationRepository implements domain.RegistrationRepository
type MongoRegistrationRepository struct {
	collection *mongo.Collection
}

// NewMongoRegistrationRepository creates a new registration repository
func NewMongoRegistrationRepository(db *mongo.Database) *MongoRegistrationRepository {
	return &MongoRegistrationRepository{
		collection: db.Collection("tournament_registrations"),
	}
}

func (r *MongoRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	now := time.Now().UTC()
	reg.ID = primitive.NewObjectID().Hex()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, reg); err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *MongoRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRegistrationRepository) GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (*domain.Registration, error) {
	return r.findOne(ctx, bson.M{
		"tournament_id": tournamentID,
		"user_id":       userID,
		"status":        bson.M{"$ne": domain.RegistrationCanceled},
	})
}

// ListInvitations returns registrations naming the user as a doubles
// partner that still await the partner's answer
func (r *MongoRegistrationRepository) ListInvitations(ctx context.Context, tournamentID, partnerID string) ([]*domain.Registration, error) {
	filter := bson.M{
		"partner_id": partnerID,
		"status":     domain.RegistrationInviting,
	}
	if tournamentID != "" {
		filter["tournament_id"] = tournamentID
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*domain.Registration
	for cursor.Next(ctx) {
		var reg domain.Registration
		if err := cursor.Decode(&reg); err != nil {
			return nil, err
		}
		result = append(result, &reg)
	}
	return result, cursor.Err()
}

func (r *MongoRegistrationRepository) ListByTournament(ctx context.Context, tournamentID string, status string, opts domain.PageOptions) ([]*domain.Registration, int64, error) {
	filter := bson.M{"tournament_id": tournamentID}
	if status != "" {
		filter["status"] = status
	}

	sortDir := -1
	if opts.Order == domain.OrderAsc {
		sortDir = 1
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: sortDir}}).
		SetSkip(int64(opts.Skip())).
		SetLimit(int64(opts.Take))

	var (
		regs  []*domain.Registration
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := r.collection.Find(gctx, filter, findOpts)
		if err != nil {
			return fmt.Errorf("failed to list registrations: %w", err)
		}
		defer cursor.Close(gctx)
		for cursor.Next(gctx) {
			var reg domain.Registration
			if err := cursor.Decode(&reg); err != nil {
				return err
			}
			regs = append(regs, &reg)
		}
		return cursor.Err()
	})
	g.Go(func() error {
		var err error
		total, err = r.collection.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *MongoRegistrationRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoRegistrationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoRegistrationRepository) findOne(ctx context.Context, filter bson.M) (*domain.Registration, error) {
	var reg domain.Registration
	if err := r.collection.FindOne(ctx, filter).Decode(&reg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &reg, nil
}
