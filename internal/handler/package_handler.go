package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/middleware"
	"github.com/matchpoint-app/matchpoint/internal/service"
)

// PackageHandler handles package catalog API endpoints
type PackageHandler struct {
	packages      *service.PackageService
	purchasedRepo domain.PurchasedPackageRepository
}

// NewPackageHandler creates a new PackageHandler
func NewPackageHandler(packages *service.PackageService, purchasedRepo domain.PurchasedPackageRepository) *PackageHandler {
	return &PackageHandler{
		packages:      packages,
		purchasedRepo: purchasedRepo,
	}
}

// List handles GET /v1/packages
// Optional ?serviceType= keeps only packages bundling that service type
func (h *PackageHandler) List(c *fiber.Ctx) error {
	list, err := h.packages.List(c.UserContext(), c.Query("serviceType"))
	if err != nil {
		return failServiceError(c, "ListPackages", err)
	}
	return ok(c, list)
}

// Get handles GET /v1/packages/:id
func (h *PackageHandler) Get(c *fiber.Ctx) error {
	detail, err := h.packages.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return failServiceError(c, "GetPackage", err)
	}
	return ok(c, detail)
}

// Create handles POST /v1/packages (admin)
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var req service.CreatePackageInput
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return failBadRequest(c, "name is required")
	}

	pkg, err := h.packages.Create(c.UserContext(), req)
	if err != nil {
		return failServiceError(c, "CreatePackage", err)
	}
	return created(c, pkg)
}

// Update handles PATCH /v1/packages/:id (admin)
func (h *PackageHandler) Update(c *fiber.Ctx) error {
	var pkg domain.Package
	if err := c.BodyParser(&pkg); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	pkg.ID = c.Params("id")

	updated, err := h.packages.Update(c.UserContext(), &pkg)
	if err != nil {
		return failServiceError(c, "UpdatePackage", err)
	}
	return ok(c, updated)
}

// Delete handles DELETE /v1/packages/:id (admin)
func (h *PackageHandler) Delete(c *fiber.Ctx) error {
	if err := h.packages.Delete(c.UserContext(), c.Params("id")); err != nil {
		return failServiceError(c, "DeletePackage", err)
	}
	return ok(c, nil)
}

// ListServices handles GET /v1/services
func (h *PackageHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.packages.ListServices(c.UserContext())
	if err != nil {
		return failServiceError(c, "ListServices", err)
	}
	return ok(c, services)
}

// CreateService handles POST /v1/services (admin)
func (h *PackageHandler) CreateService(c *fiber.Ctx) error {
	var svc domain.Service
	if err := c.BodyParser(&svc); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if svc.Name == "" || svc.Type == "" {
		return failBadRequest(c, "name and type are required")
	}
	if svc.Config == "" {
		svc.Config = "{}"
	}

	if err := h.packages.CreateService(c.UserContext(), &svc); err != nil {
		return failServiceError(c, "CreateService", err)
	}
	return created(c, svc)
}

// ListPurchased handles GET /v1/purchased-packages
// Returns the caller's subscription records
func (h *PackageHandler) ListPurchased(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	purchased, err := h.purchasedRepo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return failServiceError(c, "ListPurchased", err)
	}
	return ok(c, purchased)
}
