package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/matchpoint-app/matchpoint/internal/domain"
)

// MiniAppHandler handles mini-app catalog API endpoints
type MiniAppHandler struct {
	repo domain.MiniAppRepository
}

// NewMiniAppHandler creates a new MiniAppHandler
func NewMiniAppHandler(repo domain.MiniAppRepository) *MiniAppHandler {
	return &MiniAppHandler{repo: repo}
}

// List handles GET /v1/mini-apps
func (h *MiniAppHandler) List(c *fiber.Ctx) error {
	apps, err := h.repo.List(c.UserContext())
	if err != nil {
		return failServiceError(c, "ListMiniApps", err)
	}
	return ok(c, apps)
}

// Get handles GET /v1/mini-apps/:id
// A code lookup is supported through ?byCode=true
func (h *MiniAppHandler) Get(c *fiber.Ctx) error {
	var (
		app *domain.MiniApp
		err error
	)
	if c.Query("byCode") == "true" {
		app, err = h.repo.GetByCode(c.UserContext(), c.Params("id"))
	} else {
		app, err = h.repo.GetByID(c.UserContext(), c.Params("id"))
	}
	if err != nil {
		return failServiceError(c, "GetMiniApp", err)
	}
	return ok(c, app)
}

// Create handles POST /v1/mini-apps (admin)
func (h *MiniAppHandler) Create(c *fiber.Ctx) error {
	var app domain.MiniApp
	if err := c.BodyParser(&app); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if app.Name == "" || app.Code == "" {
		return failBadRequest(c, "name and code are required")
	}

	if err := h.repo.Create(c.UserContext(), &app); err != nil {
		return failServiceError(c, "CreateMiniApp", err)
	}
	return created(c, app)
}

// Update handles PATCH /v1/mini-apps/:id (admin)
func (h *MiniAppHandler) Update(c *fiber.Ctx) error {
	var app domain.MiniApp
	if err := c.BodyParser(&app); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	app.ID = c.Params("id")

	if err := h.repo.Update(c.UserContext(), &app); err != nil {
		return failServiceError(c, "UpdateMiniApp", err)
	}
	return ok(c, app)
}

// Delete handles DELETE /v1/mini-apps/:id (admin)
func (h *MiniAppHandler) Delete(c *fiber.Ctx) error {
	if err := h.repo.Delete(c.UserContext(), c.Params("id")); err != nil {
		return failServiceError(c, "DeleteMiniApp", err)
	}
	return ok(c, nil)
}
