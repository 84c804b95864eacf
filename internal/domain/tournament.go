package domain

import (
	"context"
	"time"
)

// Tournament format constants
const (
	FormatRoundRobin   = "round_robin"
	FormatKnockOut     = "knock_out"
	FormatGroupPlayoff = "group_playoff"
)

// Tournament gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderAny    = "any"
)

// Participant type constants
const (
	ParticipantSingle       = "single"
	ParticipantDouble       = "double"
	ParticipantMixedDoubles = "mixed_doubles"
)

// Tournament status constants
const (
	TournamentUpcoming  = "upcoming"
	TournamentOnGoing   = "on_going"
	TournamentCompleted = "completed"
)

// Tournament phase constants. Phases advance strictly forward: a draft is
// published, applicants are finalized into participants, fixtures are
// generated, then scored.
const (
	PhaseNew                 = "new"
	PhasePublished           = "published"
	PhaseFinalizedApplicants = "finalized_applicants"
	PhaseGeneratedFixtures   = "generated_fixtures"
	PhaseScored              = "scored"
	PhaseCompleted           = "completed"
)

// Tournament represents a competition owned by its creator
type Tournament struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	OwnerID             string    `bson:"owner_id" json:"owner_id"`
	Name                string    `bson:"name" json:"name"`
	Description         string    `bson:"description,omitempty" json:"description"`
	Format              string    `bson:"format" json:"format"`
	Gender              string    `bson:"gender" json:"gender"`
	ParticipantType     string    `bson:"participant_type" json:"participant_type"`
	Status              string    `bson:"status" json:"status"`
	Phase               string    `bson:"phase" json:"phase"`
	MaxParticipants     int       `bson:"max_participants" json:"max_participants"`
	RegistrationDueDate time.Time `bson:"registration_due_date" json:"registration_due_date"`
	StartDate           time.Time `bson:"start_date" json:"start_date"`
	EndDate             time.Time `bson:"end_date" json:"end_date"`
	Image               string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// Registration status constants
const (
	RegistrationPending  = "pending"
	RegistrationInviting = "inviting"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
	RegistrationCanceled = "canceled"
)

// Registration is an application to join a tournament. For doubles the
// applicant names a partner, who must accept the invitation before the
// registration becomes eligible for approval.
type Registration struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	TournamentID string    `bson:"tournament_id" json:"tournament_id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	PartnerID    string    `bson:"partner_id,omitempty" json:"partner_id,omitempty"`
	Message      string    `bson:"message,omitempty" json:"message,omitempty"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// TournamentPageOptions carries tournament listing filters on top of the
// shared pagination parameters
type TournamentPageOptions struct {
	PageOptions
	Gender          string `query:"gender"`
	Format          string `query:"format"`
	ParticipantType string `query:"participantType"`
	Phase           string `query:"phase"`
}

// TournamentPage is one page of a tournament listing
type TournamentPage struct {
	Data       []*Tournament `json:"data"`
	TotalCount int64         `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
}

// TournamentRepository defines operations for managing tournaments
type TournamentRepository interface {
	Create(ctx context.Context, t *Tournament) error
	GetByID(ctx context.Context, id string) (*Tournament, error)
	List(ctx context.Context, opts TournamentPageOptions) ([]*Tournament, int64, error)
	ListByOwner(ctx context.Context, ownerID string, opts TournamentPageOptions) ([]*Tournament, int64, error)
	Update(ctx context.Context, t *Tournament) error
	Delete(ctx context.Context, id string) error
}

// RegistrationRepository defines operations for tournament applications
type RegistrationRepository interface {
	Create(ctx context.Context, r *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (*Registration, error)
	// ListInvitations returns registrations naming the given user as a
	// doubles partner that still await the partner's answer
	ListInvitations(ctx context.Context, tournamentID, partnerID string) ([]*Registration, error)
	ListByTournament(ctx context.Context, tournamentID string, status string, opts PageOptions) ([]*Registration, int64, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}
