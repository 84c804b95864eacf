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

// MongoTournamentRepository implements domain.TournamentRepository
type MongoTournamentRepository struct {
	collection *mongo.Collection
}

// NewMongoTournamentRepository creates a new tournament repository
func NewMongoTournamentRepository(db *mongo.Database) *MongoTournamentRepository {
	return &MongoTournamentRepository{
		collection: db.Collection("tournaments"),
	}
}

func (r *MongoTournamentRepository) Create(ctx context.Context, t *domain.Tournament) error {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID().Hex()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *MongoTournamentRepository) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	var t domain.Tournament
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return &t, nil
}

// List returns published tournaments matching the filters. Drafts are only
// visible through ListByOwner.
func (r *MongoTournamentRepository) List(ctx context.Context, opts domain.TournamentPageOptions) ([]*domain.Tournament, int64, error) {
	filter := bson.M{"phase": bson.M{"$ne": domain.PhaseNew}}
	applyTournamentFilters(filter, opts)
	return r.listPage(ctx, filter, opts)
}

func (r *MongoTournamentRepository) ListByOwner(ctx context.Context, ownerID string, opts domain.TournamentPageOptions) ([]*domain.Tournament, int64, error) {
	filter := bson.M{"owner_id": ownerID}
	applyTournamentFilters(filter, opts)
	return r.listPage(ctx, filter, opts)
}

func applyTournamentFilters(filter bson.M, opts domain.TournamentPageOptions) {
	if opts.Gender != "" {
		filter["gender"] = opts.Gender
	}
	if opts.Format != "" {
		filter["format"] = opts.Format
	}
	if opts.ParticipantType != "" {
		filter["participant_type"] = opts.ParticipantType
	}
	if opts.Phase != "" {
		filter["phase"] = opts.Phase
	}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
}

func (r *MongoTournamentRepository) listPage(ctx context.Context, filter bson.M, opts domain.TournamentPageOptions) ([]*domain.Tournament, int64, error) {
	sortDir := -1
	if opts.Order == domain.OrderAsc {
		sortDir = 1
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: sortDir}}).
		SetSkip(int64(opts.Skip())).
		SetLimit(int64(opts.Take))

	var (
		tournaments []*domain.Tournament
		total       int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := r.collection.Find(gctx, filter, findOpts)
		if err != nil {
			return fmt.Errorf("failed to list tournaments: %w", err)
		}
		defer cursor.Close(gctx)
		for cursor.Next(gctx) {
			var t domain.Tournament
			if err := cursor.Decode(&t); err != nil {
				return err
			}
			tournaments = append(tournaments, &t)
		}
		return cursor.Err()
	})
	g.Go(func() error {
		var err error
		total, err = r.collection.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count tournaments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return tournaments, total, nil
}

func (r *MongoTournamentRepository) Update(ctx context.Context, t *domain.Tournament) error {
	t.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":                  t.Name,
			"description":           t.Description,
			"format":                t.Format,
			"gender":                t.Gender,
			"participant_type":      t.ParticipantType,
			"status":                t.Status,
			"phase":                 t.Phase,
			"max_participants":      t.MaxParticipants,
			"registration_due_date": t.RegistrationDueDate,
			"start_date":            t.StartDate,
			"end_date":              t.EndDate,
			"image":                 t.Image,
			"updated_at":            t.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": t.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
