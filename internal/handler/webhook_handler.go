package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/infrastructure/paygate"
	"github.com/matchpoint-app/matchpoint/internal/service"
)

// WebhookHandler handles inbound payment gateway callbacks
type WebhookHandler struct {
	orders    *service.OrderService
	orderRepo domain.OrderRepository
	apiKey    string
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(orders *service.OrderService, orderRepo domain.OrderRepository, apiKey string) *WebhookHandler {
	return &WebhookHandler{
		orders:    orders,
		orderRepo: orderRepo,
		apiKey:    apiKey,
	}
}

// PaymentCallbackRequest represents the callback payload from the gateway
type PaymentCallbackRequest struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"` // new, pending, completed, failed, canceled
	Signature string `json:"signature"`
}

// PaymentCallback handles POST /v1/payments/callback
// This is a public endpoint; authenticity comes from the HMAC signature.
func (h *WebhookHandler) PaymentCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req PaymentCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[Webhook] Failed to parse body: %v", err)
		return failBadRequest(c, "invalid request body")
	}
	if req.OrderID == "" || req.Status == "" {
		return failBadRequest(c, "orderId and status are required")
	}

	log.Printf("[Webhook] Received callback: order=%s, status=%s", req.OrderID, req.Status)

	if !paygate.VerifyCallbackSignature(h.apiKey, req.OrderID, req.Status, req.Signature) {
		log.Printf("[Webhook] Signature verification failed for order=%s", req.OrderID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "invalid signature",
		})
	}

	if !validCallbackStatus(req.Status) {
		return failBadRequest(c, "unknown payment status")
	}

	order, err := h.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Printf("[Webhook] Order not found: %s", req.OrderID)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "order not found",
			})
		}
		log.Printf("[Webhook] Failed to load order %s: %v", req.OrderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to load order",
		})
	}

	// Prevent duplicate processing
	if order.Status == domain.OrderStatusCompleted {
		log.Printf("[Webhook] Order already completed: %s", req.OrderID)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "already processed",
		})
	}

	if _, err := h.orders.ApplyPaymentCompletion(ctx, req.OrderID, req.Status); err != nil {
		log.Printf("[Webhook] Completion failed for order %s: %v", req.OrderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to process payment",
		})
	}

	log.Printf("[Webhook] Payment processed: order=%s, status=%s", req.OrderID, req.Status)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "payment processed",
	})
}

// validCallbackStatus accepts every order status the gateway reports.
// Only "completed" triggers a subscription side effect; the rest are
// status-only updates.
func validCallbackStatus(status string) bool {
	switch status {
	case domain.OrderStatusNew, domain.OrderStatusPending,
		domain.OrderStatusCompleted, domain.OrderStatusFailed, domain.OrderStatusCanceled:
		return true
	}
	return false
}
