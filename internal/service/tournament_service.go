package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
)

// TournamentService manages the tournament lifecycle: creation and
// publishing, applicant handling, invitations and fixture generation.
type TournamentService struct {
	tournamentRepo   domain.TournamentRepository
	registrationRepo domain.RegistrationRepository
	fixtureRepo      domain.FixtureRepository
	notifier         PushNotifier
}

// NewTournamentService creates a new TournamentService. notifier may be nil.
func NewTournamentService(
	tournamentRepo domain.TournamentRepository,
	registrationRepo domain.RegistrationRepository,
	fixtureRepo domain.FixtureRepository,
	notifier PushNotifier,
) *TournamentService {
	return &TournamentService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		fixtureRepo:      fixtureRepo,
		notifier:         notifier,
	}
}

// Create stores a new draft tournament owned by the caller
func (s *TournamentService) Create(ctx context.Context, ownerID string, t *domain.Tournament) (*domain.Tournament, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", domain.ErrValidation)
	}
	switch t.Format {
	case domain.FormatRoundRobin, domain.FormatKnockOut, domain.FormatGroupPlayoff:
	default:
		return nil, fmt.Errorf("%w: unknown tournament format %q", domain.ErrValidation, t.Format)
	}

	t.OwnerID = ownerID
	t.Status = domain.TournamentUpcoming
	t.Phase = domain.PhaseNew
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Publish moves a draft tournament into the published phase, opening it
// for applications
func (s *TournamentService) Publish(ctx context.Context, ownerID, tournamentID string) (*domain.Tournament, error) {
	t, err := s.ownedTournament(ctx, ownerID, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Phase != domain.PhaseNew {
		return nil, fmt.Errorf("%w: tournament already published", domain.ErrValidation)
	}

	t.Phase = domain.PhasePublished
	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns tournaments for the admin listing
func (s *TournamentService) List(ctx context.Context, opts domain.TournamentPageOptions) (*domain.TournamentPage, error) {
	opts.Normalize()
	tournaments, totalCount, err := s.tournamentRepo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &domain.TournamentPage{
		Data:       tournaments,
		TotalCount: totalCount,
		TotalPages: opts.TotalPages(totalCount),
	}, nil
}

// ListMine returns tournaments created by the caller
func (s *TournamentService) ListMine(ctx context.Context, ownerID string, opts domain.TournamentPageOptions) (*domain.TournamentPage, error) {
	opts.Normalize()
	tournaments, totalCount, err := s.tournamentRepo.ListByOwner(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}
	return &domain.TournamentPage{
		Data:       tournaments,
		TotalCount: totalCount,
		TotalPages: opts.TotalPages(totalCount),
	}, nil
}

// Get returns a single tournament
func (s *TournamentService) Get(ctx context.Context, id string) (*domain.Tournament, error) {
	return s.tournamentRepo.GetByID(ctx, id)
}

// SubmitApplication files an application to join a published tournament.
// Doubles applications start in "inviting" until the named partner
// accepts; singles start in "pending".
func (s *TournamentService) SubmitApplication(ctx context.Context, userID, tournamentID, partnerID, message string) (*domain.Registration, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Phase != domain.PhasePublished {
		return nil, fmt.Errorf("%w: tournament is not open for registration", domain.ErrValidation)
	}
	if !t.RegistrationDueDate.IsZero() && time.Now().UTC().After(t.RegistrationDueDate) {
		return nil, fmt.Errorf("%w: registration period has ended", domain.ErrValidation)
	}

	existing, err := s.registrationRepo.GetByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status != domain.RegistrationCanceled {
		return nil, fmt.Errorf("%w: application already submitted", domain.ErrValidation)
	}

	needsPartner := t.ParticipantType != domain.ParticipantSingle
	if needsPartner && partnerID == "" {
		return nil, fmt.Errorf("%w: a partner is required for %s tournaments", domain.ErrValidation, t.ParticipantType)
	}

	status := domain.RegistrationPending
	if needsPartner {
		status = domain.RegistrationInviting
	}

	reg := &domain.Registration{
		TournamentID: tournamentID,
		UserID:       userID,
		PartnerID:    partnerID,
		Message:      message,
		Status:       status,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, err
	}

	if needsPartner {
		s.notify(ctx, partnerID, "Tournament invitation",
			fmt.Sprintf("You have been invited to join %s as a partner.", t.Name))
	}
	return reg, nil
}

// GetSubmittedApplication returns the caller's application for a tournament
func (s *TournamentService) GetSubmittedApplication(ctx context.Context, userID, tournamentID string) (*domain.Registration, error) {
	return s.registrationRepo.GetByTournamentAndUser(ctx, tournamentID, userID)
}

// CancelApplication withdraws the caller's application
func (s *TournamentService) CancelApplication(ctx context.Context, userID, tournamentID string) error {
	reg, err := s.registrationRepo.GetByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		return err
	}
	if reg.Status == domain.RegistrationApproved {
		return fmt.Errorf("%w: approved applications cannot be canceled", domain.ErrValidation)
	}
	return s.registrationRepo.UpdateStatus(ctx, reg.ID, domain.RegistrationCanceled)
}

// ListApplicants returns a tournament's applications for its owner
func (s *TournamentService) ListApplicants(ctx context.Context, ownerID, tournamentID, status string, opts domain.PageOptions) ([]*domain.Registration, int64, error) {
	if _, err := s.ownedTournament(ctx, ownerID, tournamentID); err != nil {
		return nil, 0, err
	}
	opts.Normalize()
	return s.registrationRepo.ListByTournament(ctx, tournamentID, status, opts)
}

// ApproveApplicant accepts an application into the participant list
func (s *TournamentService) ApproveApplicant(ctx context.Context, ownerID, tournamentID, applicantID string) error {
	t, err := s.ownedTournament(ctx, ownerID, tournamentID)
	if err != nil {
		return err
	}

	reg, err := s.registrationRepo.GetByTournamentAndUser(ctx, tournamentID, applicantID)
	if err != nil {
		return err
	}
	if reg.Status != domain.RegistrationPending {
		return fmt.Errorf("%w: application is not awaiting approval", domain.ErrValidation)
	}

	if err := s.registrationRepo.UpdateStatus(ctx, reg.ID, domain.RegistrationApproved); err != nil {
		return err
	}

	s.notify(ctx, applicantID, "Application approved",
		fmt.Sprintf("Your application to %s has been approved.", t.Name))
	return nil
}

// RejectApplicant declines an application
func (s *TournamentService) RejectApplicant(ctx context.Context, ownerID, tournamentID, applicantID string) error {
	if _, err := s.ownedTournament(ctx, ownerID, tournamentID); err != nil {
		return err
	}

	reg, err := s.registrationRepo.GetByTournamentAndUser(ctx, tournamentID, applicantID)
	if err != nil {
		return err
	}
	return s.registrationRepo.UpdateStatus(ctx, reg.ID, domain.RegistrationRejected)
}

// FinalizeApplicants closes the applicant list. At least two approved
// participants are required; the phase advances so fixtures can be
// generated.
func (s *TournamentService) FinalizeApplicants(ctx context.Context, ownerID, tournamentID string) (*domain.Tournament, error) {
	t, err := s.ownedTournament(ctx, ownerID, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Phase != domain.PhasePublished {
		return nil, fmt.Errorf("%w: applicant list cannot be finalized in phase %s", domain.ErrValidation, t.Phase)
	}

	approved, _, err := s.registrationRepo.ListByTournament(ctx, tournamentID, domain.RegistrationApproved, domain.PageOptions{Page: 1, Take: 1000})
	if err != nil {
		return nil, err
	}
	if len(approved) < 2 {
		return nil, fmt.Errorf("%w: at least two approved participants are required", domain.ErrValidation)
	}

	t.Phase = domain.PhaseFinalizedApplicants
	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListParticipants returns the approved participant list
func (s *TournamentService) ListParticipants(ctx context.Context, tournamentID string, opts domain.PageOptions) ([]*domain.Registration, int64, error) {
	opts.Normalize()
	return s.registrationRepo.ListByTournament(ctx, tournamentID, domain.RegistrationApproved, opts)
}

// ListInvitations returns pending partner invitations addressed to the caller
func (s *TournamentService) ListInvitations(ctx context.Context, userID, tournamentID string) ([]*domain.Registration, error) {
	return s.registrationRepo.ListInvitations(ctx, tournamentID, userID)
}

// AcceptInvitation confirms a doubles pairing: the registration moves
// from "inviting" to "pending" and becomes eligible for approval
func (s *TournamentService) AcceptInvitation(ctx context.Context, userID, tournamentID, inviterID string) error {
	reg, err := s.invitationFrom(ctx, userID, tournamentID, inviterID)
	if err != nil {
		return err
	}

	if err := s.registrationRepo.UpdateStatus(ctx, reg.ID, domain.RegistrationPending); err != nil {
		return err
	}

	s.notify(ctx, inviterID, "Invitation accepted",
		"Your partner has accepted the tournament invitation.")
	return nil
}

// RejectInvitation declines a doubles pairing
func (s *TournamentService) RejectInvitation(ctx context.Context, userID, tournamentID, inviterID string) error {
	reg, err := s.invitationFrom(ctx, userID, tournamentID, inviterID)
	if err != nil {
		return err
	}

	if err := s.registrationRepo.UpdateStatus(ctx, reg.ID, domain.RegistrationRejected); err != nil {
		return err
	}

	s.notify(ctx, inviterID, "Invitation declined",
		"Your partner has declined the tournament invitation.")
	return nil
}

// GenerateFixture builds the match plan from the finalized participant
// list. The generation itself is deterministic; see fixture_service.go.
func (s *TournamentService) GenerateFixture(ctx context.Context, ownerID, tournamentID string, groupCount int) (*domain.Fixture, error) {
	t, err := s.ownedTournament(ctx, ownerID, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Phase != domain.PhaseFinalizedApplicants {
		return nil, fmt.Errorf("%w: fixtures require a finalized applicant list", domain.ErrValidation)
	}

	approved, _, err := s.registrationRepo.ListByTournament(ctx, tournamentID, domain.RegistrationApproved, domain.PageOptions{Page: 1, Take: 1000})
	if err != nil {
		return nil, err
	}

	participants := make([]string, len(approved))
	for i, reg := range approved {
		participants[i] = reg.UserID
	}

	rounds, err := GenerateRounds(t.Format, participants, groupCount)
	if err != nil {
		return nil, err
	}

	fixture := &domain.Fixture{
		TournamentID: tournamentID,
		Format:       t.Format,
		Rounds:       rounds,
	}
	if err := s.fixtureRepo.Save(ctx, fixture); err != nil {
		return nil, err
	}

	t.Phase = domain.PhaseGeneratedFixtures
	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return fixture, nil
}

// SaveFixture stores a manually edited fixture
func (s *TournamentService) SaveFixture(ctx context.Context, ownerID, tournamentID string, fixture *domain.Fixture) error {
	if _, err := s.ownedTournament(ctx, ownerID, tournamentID); err != nil {
		return err
	}
	fixture.TournamentID = tournamentID
	return s.fixtureRepo.Save(ctx, fixture)
}

// GetFixture returns the saved fixture of a tournament
func (s *TournamentService) GetFixture(ctx context.Context, tournamentID string) (*domain.Fixture, error) {
	return s.fixtureRepo.GetByTournamentID(ctx, tournamentID)
}

// ResetFixture discards the fixture and steps the phase back so a new one
// can be generated
func (s *TournamentService) ResetFixture(ctx context.Context, ownerID, tournamentID string) error {
	t, err := s.ownedTournament(ctx, ownerID, tournamentID)
	if err != nil {
		return err
	}

	if err := s.fixtureRepo.DeleteByTournamentID(ctx, tournamentID); err != nil {
		return err
	}

	if t.Phase == domain.PhaseGeneratedFixtures {
		t.Phase = domain.PhaseFinalizedApplicants
		return s.tournamentRepo.Update(ctx, t)
	}
	return nil
}

func (s *TournamentService) ownedTournament(ctx context.Context, ownerID, tournamentID string) (*domain.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

func (s *TournamentService) invitationFrom(ctx context.Context, userID, tournamentID, inviterID string) (*domain.Registration, error) {
	invitations, err := s.registrationRepo.ListInvitations(ctx, tournamentID, userID)
	if err != nil {
		return nil, err
	}
	for _, reg := range invitations {
		if reg.UserID == inviterID {
			return reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *TournamentService) notify(ctx context.Context, userID, title, body string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendToUser(ctx, userID, title, body); err != nil {
		log.Printf("[Tournament] Push notification failed for user %s: %v", userID, err)
	}
}
