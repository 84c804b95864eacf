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

// MongoFixtureRepository implements domain.FixtureRepository
type MongoFixtureRepository struct {
	collection *mongo.Collection
}

// NewMongoFixtureRepository creates a new fixture repository
func NewMongoFixtureRepository(db *mongo.Database) *MongoFixtureRepository {
	return &MongoFixtureRepository{
		collection: db.Collection("fixtures"),
	}
}

// Save upserts the fixture keyed by tournament id. Regenerating a fixture
// replaces the previous plan instead of accumulating documents.
func (r *MongoFixtureRepository) Save(ctx context.Context, f *domain.Fixture) error {
	now := time.Now().UTC()
	if f.ID == "" {
		f.ID = primitive.NewObjectID().Hex()
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"format":     f.Format,
			"rounds":     f.Rounds,
			"updated_at": f.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        f.ID,
			"created_at": f.CreatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"tournament_id": f.TournamentID}, update, opts); err != nil {
		return fmt.Errorf("failed to save fixture: %w", err)
	}
	return nil
}

func (r *MongoFixtureRepository) GetByTournamentID(ctx context.Context, tournamentID string) (*domain.Fixture, error) {
	var f domain.Fixture
	if err := r.collection.FindOne(ctx, bson.M{"tournament_id": tournamentID}).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}
	return &f, nil
}

func (r *MongoFixtureRepository) DeleteByTournamentID(ctx context.Context, tournamentID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"tournament_id": tournamentID})
	if err != nil {
		return fmt.Errorf("failed to delete fixture: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
