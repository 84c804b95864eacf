package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/middleware"
	"github.com/matchpoint-app/matchpoint/internal/service"
)

// TournamentHandler handles tournament API endpoints
type TournamentHandler struct {
	tournaments *service.TournamentService
}

// NewTournamentHandler creates a new TournamentHandler
func NewTournamentHandler(tournaments *service.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments}
}

// CreateTournamentRequest represents the request body for a new tournament
type CreateTournamentRequest struct {
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Format              string    `json:"format"`
	Gender              string    `json:"gender"`
	ParticipantType     string    `json:"participantType"`
	MaxParticipants     int       `json:"maxParticipants"`
	RegistrationDueDate time.Time `json:"registrationDueDate"`
	StartDate           time.Time `json:"startDate"`
	EndDate             time.Time `json:"endDate"`
	Image               string    `json:"image"`
}

// Create handles POST /v1/tournaments
func (h *TournamentHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req CreateTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}

	t := &domain.Tournament{
		Name:                req.Name,
		Description:         req.Description,
		Format:              req.Format,
		Gender:              req.Gender,
		ParticipantType:     req.ParticipantType,
		MaxParticipants:     req.MaxParticipants,
		RegistrationDueDate: req.RegistrationDueDate,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		Image:               req.Image,
	}
	if t.Gender == "" {
		t.Gender = domain.GenderAny
	}
	if t.ParticipantType == "" {
		t.ParticipantType = domain.ParticipantSingle
	}

	tournament, err := h.tournaments.Create(c.UserContext(), userID, t)
	if err != nil {
		return failServiceError(c, "CreateTournament", err)
	}
	return created(c, tournament)
}

// Publish handles POST /v1/tournaments/:id/publish
func (h *TournamentHandler) Publish(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	tournament, err := h.tournaments.Publish(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return failServiceError(c, "PublishTournament", err)
	}
	return ok(c, tournament)
}

// List handles GET /v1/tournaments
func (h *TournamentHandler) List(c *fiber.Ctx) error {
	var opts domain.TournamentPageOptions
	if err := c.QueryParser(&opts); err != nil {
		return failBadRequest(c, "invalid query parameters")
	}

	page, err := h.tournaments.List(c.UserContext(), opts)
	if err != nil {
		return failServiceError(c, "ListTournaments", err)
	}
	return ok(c, page)
}

// ListMine handles GET /v1/tournaments/mine
func (h *TournamentHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var opts domain.TournamentPageOptions
	if err := c.QueryParser(&opts); err != nil {
		return failBadRequest(c, "invalid query parameters")
	}

	page, err := h.tournaments.ListMine(c.UserContext(), userID, opts)
	if err != nil {
		return failServiceError(c, "ListMyTournaments", err)
	}
	return ok(c, page)
}

// Get handles GET /v1/tournaments/:id
func (h *TournamentHandler) Get(c *fiber.Ctx) error {
	tournament, err := h.tournaments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return failServiceError(c, "GetTournament", err)
	}
	return ok(c, tournament)
}

// ApplyRequest represents the request body for a tournament application
type ApplyRequest struct {
	PartnerID string `json:"partnerId"`
	Message   string `json:"message"`
}

// Apply handles POST /v1/tournaments/:id/applications
func (h *TournamentHandler) Apply(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}

	reg, err := h.tournaments.SubmitApplication(c.UserContext(), userID, c.Params("id"), req.PartnerID, req.Message)
	if err != nil {
		return failServiceError(c, "SubmitApplication", err)
	}
	return created(c, reg)
}

// GetMyApplication handles GET /v1/tournaments/:id/applications/me
func (h *TournamentHandler) GetMyApplication(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	reg, err := h.tournaments.GetSubmittedApplication(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return failServiceError(c, "GetMyApplication", err)
	}
	return ok(c, reg)
}

// CancelApplication handles DELETE /v1/tournaments/:id/applications/me
func (h *TournamentHandler) CancelApplication(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	if err := h.tournaments.CancelApplication(c.UserContext(), userID, c.Params("id")); err != nil {
		return failServiceError(c, "CancelApplication", err)
	}
	return ok(c, nil)
}

// ListApplicants handles GET /v1/tournaments/:id/applications (owner)
func (h *TournamentHandler) ListApplicants(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var opts domain.PageOptions
	if err := c.QueryParser(&opts); err != nil {
		return failBadRequest(c, "invalid query parameters")
	}

	regs, totalCount, err := h.tournaments.ListApplicants(c.UserContext(), userID, c.Params("id"), c.Query("status"), opts)
	if err != nil {
		return failServiceError(c, "ListApplicants", err)
	}
	opts.Normalize()
	return ok(c, fiber.Map{
		"data":       regs,
		"totalCount": totalCount,
		"totalPages": opts.TotalPages(totalCount),
	})
}

// ApproveApplicant handles POST /v1/tournaments/:id/applications/:userId/approve (owner)
func (h *TournamentHandler) ApproveApplicant(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	if err := h.tournaments.ApproveApplicant(c.UserContext(), userID, c.Params("id"), c.Params("userId")); err != nil {
		return failServiceError(c, "ApproveApplicant", err)
	}
	return ok(c, nil)
}

// RejectApplicant handles POST /v1/tournaments/:id/applications/:userId/reject (owner)
func (h *TournamentHandler) RejectApplicant(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	if err := h.tournaments.RejectApplicant(c.UserContext(), userID, c.Params("id"), c.Params("userId")); err != nil {
		return failServiceError(c, "RejectApplicant", err)
	}
	return ok(c, nil)
}

// FinalizeApplicants handles POST /v1/tournaments/:id/applications/finalize (owner)
func (h *TournamentHandler) FinalizeApplicants(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	tournament, err := h.tournaments.FinalizeApplicants(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return failServiceError(c, "FinalizeApplicants", err)
	}
	return ok(c, tournament)
}

// ListParticipants handles GET /v1/tournaments/:id/participants
func (h *TournamentHandler) ListParticipants(c *fiber.Ctx) error {
	var opts domain.PageOptions
	if err := c.QueryParser(&opts); err != nil {
		return failBadRequest(c, "invalid query parameters")
	}

	regs, totalCount, err := h.tournaments.ListParticipants(c.UserContext(), c.Params("id"), opts)
	if err != nil {
		return failServiceError(c, "ListParticipants", err)
	}
	opts.Normalize()
	return ok(c, fiber.Map{
		"data":       regs,
		"totalCount": totalCount,
		"totalPages": opts.TotalPages(totalCount),
	})
}

// ListInvitations handles GET /v1/tournaments/:id/invitations
func (h *TournamentHandler) ListInvitations(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	invitations, err := h.tournaments.ListInvitations(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return failServiceError(c, "ListInvitations", err)
	}
	return ok(c, invitations)
}

// InvitationActionRequest names the inviting player of a doubles pair
type InvitationActionRequest struct {
	InviterID string `json:"inviterId"`
}

// AcceptInvitation handles POST /v1/tournaments/:id/invitations/accept
func (h *TournamentHandler) AcceptInvitation(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req InvitationActionRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if req.InviterID == "" {
		return failBadRequest(c, "inviterId is required")
	}

	if err := h.tournaments.AcceptInvitation(c.UserContext(), userID, c.Params("id"), req.InviterID); err != nil {
		return failServiceError(c, "AcceptInvitation", err)
	}
	return ok(c, nil)
}

// RejectInvitation handles POST /v1/tournaments/:id/invitations/reject
func (h *TournamentHandler) RejectInvitation(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req InvitationActionRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if req.InviterID == "" {
		return failBadRequest(c, "inviterId is required")
	}

	if err := h.tournaments.RejectInvitation(c.UserContext(), userID, c.Params("id"), req.InviterID); err != nil {
		return failServiceError(c, "RejectInvitation", err)
	}
	return ok(c, nil)
}

// GenerateFixtureRequest carries fixture generation options
type GenerateFixtureRequest struct {
	GroupCount int `json:"groupCount"` // group_playoff only
}

// GenerateFixture handles POST /v1/tournaments/:id/fixture/generate (owner)
func (h *TournamentHandler) GenerateFixture(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req GenerateFixtureRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return failBadRequest(c, "invalid request body")
	}

	fixture, err := h.tournaments.GenerateFixture(c.UserContext(), userID, c.Params("id"), req.GroupCount)
	if err != nil {
		return failServiceError(c, "GenerateFixture", err)
	}
	return created(c, fixture)
}

// SaveFixture handles PUT /v1/tournaments/:id/fixture (owner)
func (h *TournamentHandler) SaveFixture(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var fixture domain.Fixture
	if err := c.BodyParser(&fixture); err != nil {
		return failBadRequest(c, "invalid request body")
	}

	if err := h.tournaments.SaveFixture(c.UserContext(), userID, c.Params("id"), &fixture); err != nil {
		return failServiceError(c, "SaveFixture", err)
	}
	return ok(c, fixture)
}

// GetFixture handles GET /v1/tournaments/:id/fixture
func (h *TournamentHandler) GetFixture(c *fiber.Ctx) error {
	fixture, err := h.tournaments.GetFixture(c.UserContext(), c.Params("id"))
	if err != nil {
		return failServiceError(c, "GetFixture", err)
	}
	return ok(c, fixture)
}

// ResetFixture handles DELETE /v1/tournaments/:id/fixture (owner)
func (h *TournamentHandler) ResetFixture(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	if err := h.tournaments.ResetFixture(c.UserContext(), userID, c.Params("id")); err != nil {
		return failServiceError(c, "ResetFixture", err)
	}
	return ok(c, nil)
}
