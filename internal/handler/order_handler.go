package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/middleware"
	"github.com/matchpoint-app/matchpoint/internal/service"
)

// OrderHandler handles order API endpoints
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrderRequest represents the request body for a new purchase
type CreateOrderRequest struct {
	PackageID string `json:"packageId"`
	GroupID   string `json:"groupId"`
	Partner   string `json:"partner"`
}

// UpgradeOrderRequest represents the request body for an upgrade
type UpgradeOrderRequest struct {
	PurchasedPackageID string `json:"purchasedPackageId"`
	PackageID          string `json:"packageId"` // upgrade target
	Partner            string `json:"partner"`
}

// RenewOrderRequest represents the request body for a renewal
type RenewOrderRequest struct {
	PurchasedPackageID string `json:"purchasedPackageId"`
	Partner            string `json:"partner"`
}

// isMobile reports whether the client asked for the mobile return URL
func isMobile(c *fiber.Ctx) bool {
	return c.Get("X-Client-Platform") == "mobile"
}

// Create handles POST /v1/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if req.PackageID == "" {
		return failBadRequest(c, "packageId is required")
	}

	checkout, err := h.orders.Create(c.UserContext(), service.CreateOrderInput{
		PackageID: req.PackageID,
		UserID:    userID,
		GroupID:   req.GroupID,
		Partner:   req.Partner,
		ClientIP:  c.IP(),
		Mobile:    isMobile(c),
	})
	if err != nil {
		return failServiceError(c, "CreateOrder", err)
	}
	return created(c, checkout)
}

// Upgrade handles POST /v1/orders/upgrade
func (h *OrderHandler) Upgrade(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req UpgradeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if req.PurchasedPackageID == "" || req.PackageID == "" {
		return failBadRequest(c, "purchasedPackageId and packageId are required")
	}

	checkout, err := h.orders.Upgrade(c.UserContext(), service.UpgradeOrderInput{
		PurchasedPackageID: req.PurchasedPackageID,
		PackageID:          req.PackageID,
		UserID:             userID,
		Partner:            req.Partner,
		ClientIP:           c.IP(),
		Mobile:             isMobile(c),
	})
	if err != nil {
		return failServiceError(c, "UpgradeOrder", err)
	}
	return created(c, checkout)
}

// Renew handles POST /v1/orders/renew
func (h *OrderHandler) Renew(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req RenewOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if req.PurchasedPackageID == "" {
		return failBadRequest(c, "purchasedPackageId is required")
	}

	checkout, err := h.orders.Renew(c.UserContext(), service.RenewOrderInput{
		PurchasedPackageID: req.PurchasedPackageID,
		UserID:             userID,
		Partner:            req.Partner,
		ClientIP:           c.IP(),
		Mobile:             isMobile(c),
	})
	if err != nil {
		return failServiceError(c, "RenewOrder", err)
	}
	return created(c, checkout)
}

// List handles GET /v1/orders
// Returns the caller's orders, excluding those still in "new" status
func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var opts domain.PageOptions
	if err := c.QueryParser(&opts); err != nil {
		return failBadRequest(c, "invalid query parameters")
	}

	page, err := h.orders.List(c.UserContext(), userID, opts)
	if err != nil {
		return failServiceError(c, "ListOrders", err)
	}
	return ok(c, page)
}

// ListAdmin handles GET /v1/admin/orders (admin)
func (h *OrderHandler) ListAdmin(c *fiber.Ctx) error {
	var opts domain.PageOptions
	if err := c.QueryParser(&opts); err != nil {
		return failBadRequest(c, "invalid query parameters")
	}

	page, err := h.orders.ListAdmin(c.UserContext(), opts)
	if err != nil {
		return failServiceError(c, "ListAdminOrders", err)
	}
	return ok(c, page)
}

// Get handles GET /v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	detail, err := h.orders.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return failServiceError(c, "GetOrder", err)
	}
	if detail.UserID != userID && !hasRole(c, domain.RoleAdmin) {
		return failServiceError(c, "GetOrder", domain.ErrForbidden)
	}
	return ok(c, detail)
}

// SetStatusRequest represents the administrative status override body
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /v1/admin/orders/:id/status (admin)
// This is a bare status override without subscription side effects
func (h *OrderHandler) SetStatus(c *fiber.Ctx) error {
	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if !validOrderStatus(req.Status) {
		return failBadRequest(c, "invalid order status")
	}

	order, err := h.orders.SetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return failServiceError(c, "SetOrderStatus", err)
	}
	return ok(c, order)
}

// Delete handles DELETE /v1/admin/orders/:id (admin)
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.UserContext(), c.Params("id")); err != nil {
		return failServiceError(c, "DeleteOrder", err)
	}
	return ok(c, nil)
}

func validOrderStatus(status string) bool {
	switch status {
	case domain.OrderStatusNew, domain.OrderStatusPending, domain.OrderStatusCompleted,
		domain.OrderStatusFailed, domain.OrderStatusCanceled:
		return true
	}
	return false
}

func hasRole(c *fiber.Ctx, role string) bool {
	roles, ok := c.Locals(middleware.RolesKey).([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
