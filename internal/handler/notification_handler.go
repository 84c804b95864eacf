package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/matchpoint-app/matchpoint/internal/middleware"
	"github.com/matchpoint-app/matchpoint/internal/notification"
)

// NotificationHandler handles push registration API endpoints
type NotificationHandler struct {
	notifier *notification.FCMNotifier
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier *notification.FCMNotifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// RegisterTokenRequest represents the device token registration body
type RegisterTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"` // ios, android, web
}

// RegisterToken handles POST /v1/notifications/tokens
func (h *NotificationHandler) RegisterToken(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return failUnauthorized(c)
	}

	var req RegisterTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return failBadRequest(c, "invalid request body")
	}
	if req.Token == "" {
		return failBadRequest(c, "token is required")
	}

	if err := h.notifier.RegisterToken(c.UserContext(), userID, req.Token, req.Platform); err != nil {
		return failServiceError(c, "RegisterToken", err)
	}
	return created(c, nil)
}
