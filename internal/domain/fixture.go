package domain

import (
	"context"
	"time"
)

// Match pairs two participants in a fixture round. A bye match has an
// empty Away side and is considered already won by Home.
type Match struct {
	ID     string `bson:"id" json:"id"`
	HomeID string `bson:"home_id" json:"home_id"`
	AwayID string `bson:"away_id,omitempty" json:"away_id,omitempty"`
	Bye    bool   `bson:"bye,omitempty" json:"bye,omitempty"`
}

// Round is one scheduling unit of a fixture. Group is set only for the
// group stage of a group-playoff fixture.
type Round struct {
	Number  int     `bson:"number" json:"number"`
	Group   string  `bson:"group,omitempty" json:"group,omitempty"`
	Matches []Match `bson:"matches" json:"matches"`
}

// Fixture is the generated match plan of a tournament
type Fixture struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	TournamentID string    `bson:"tournament_id" json:"tournament_id"`
	Format       string    `bson:"format" json:"format"`
	Rounds       []Round   `bson:"rounds" json:"rounds"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// FixtureRepository defines operations for tournament fixtures. A
// tournament has at most one saved fixture; Save upserts it.
type FixtureRepository interface {
	Save(ctx context.Context, f *Fixture) error
	GetByTournamentID(ctx context.Context, tournamentID string) (*Fixture, error)
	DeleteByTournamentID(ctx context.Context, tournamentID string) error
}
