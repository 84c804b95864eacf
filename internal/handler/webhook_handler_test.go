package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/matchpoint-app/matchpoint/internal/config"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookAPIKey = "webhook-api-key"

type memOrderRepo struct {
	orders map[string]*domain.Order
}

func (m *memOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *memOrderRepo) ListByUser(ctx context.Context, userID string, opts domain.PageOptions) ([]*domain.Order, int64, error) {
	return nil, 0, nil
}

func (m *memOrderRepo) ListAdmin(ctx context.Context, opts domain.PageOptions) ([]*domain.Order, int64, error) {
	return nil, 0, nil
}

func (m *memOrderRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	order, ok := m.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	order.Status = status
	return nil
}

func (m *memOrderRepo) Delete(ctx context.Context, id string) error {
	delete(m.orders, id)
	return nil
}

type memPackageRepo struct {
	packages map[string]*domain.Package
}

func (m *memPackageRepo) Create(ctx context.Context, pkg *domain.Package, serviceIDs []string) error {
	return nil
}

func (m *memPackageRepo) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	pkg, ok := m.packages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pkg, nil
}

func (m *memPackageRepo) GetDetail(ctx context.Context, id string) (*domain.PackageDetail, error) {
	pkg, ok := m.packages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.PackageDetail{Package: *pkg}, nil
}

func (m *memPackageRepo) List(ctx context.Context, serviceType string) ([]*domain.PackageDetail, error) {
	return nil, nil
}

func (m *memPackageRepo) GetChildren(ctx context.Context, parentID string) ([]*domain.Package, error) {
	return nil, nil
}

func (m *memPackageRepo) Update(ctx context.Context, pkg *domain.Package) error { return nil }
func (m *memPackageRepo) Delete(ctx context.Context, id string) error           { return nil }

type memPurchasedRepo struct {
	records []*domain.PurchasedPackage
}

func (m *memPurchasedRepo) Create(ctx context.Context, pp *domain.PurchasedPackage) error {
	pp.ID = "pp-1"
	m.records = append(m.records, pp)
	return nil
}

func (m *memPurchasedRepo) GetByID(ctx context.Context, id string) (*domain.PurchasedPackage, error) {
	return nil, domain.ErrNotFound
}

func (m *memPurchasedRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.PurchasedPackage, error) {
	return nil, domain.ErrNotFound
}

func (m *memPurchasedRepo) GetByUserID(ctx context.Context, userID string) ([]*domain.PurchasedPackage, error) {
	return m.records, nil
}

func (m *memPurchasedRepo) UpdateByOrderID(ctx context.Context, orderID string, pp *domain.PurchasedPackage) error {
	return domain.ErrNotFound
}

func setupWebhookApp(t *testing.T) (*fiber.App, *memOrderRepo, *memPurchasedRepo) {
	t.Helper()
	orderRepo := &memOrderRepo{orders: map[string]*domain.Order{
		"order-new":     {ID: "order-new", UserID: "user-1", PackageID: "pkg-1", Type: domain.OrderTypeCreate, Status: domain.OrderStatusNew},
		"order-pending": {ID: "order-pending", UserID: "user-1", PackageID: "pkg-1", Type: domain.OrderTypeCreate, Status: domain.OrderStatusPending},
		"order-done":    {ID: "order-done", UserID: "user-1", PackageID: "pkg-1", Type: domain.OrderTypeCreate, Status: domain.OrderStatusCompleted},
	}}
	pkgRepo := &memPackageRepo{packages: map[string]*domain.Package{
		"pkg-1": {ID: "pkg-1", Name: "Basic", Price: 99000, DurationMonths: 3},
	}}
	purchasedRepo := &memPurchasedRepo{}

	orders := service.NewOrderService(orderRepo, pkgRepo, purchasedRepo, &service.MockPaymentProvider{}, nil, config.PaymentConfig{})
	webhook := NewWebhookHandler(orders, orderRepo, webhookAPIKey)

	app := fiber.New()
	app.Post("/v1/payments/callback", webhook.PaymentCallback)
	return app, orderRepo, purchasedRepo
}

func callbackSignature(orderID, status string) string {
	mac := hmac.New(sha256.New, []byte(webhookAPIKey))
	mac.Write([]byte(orderID + "." + status))
	return hex.EncodeToString(mac.Sum(nil))
}

func postCallback(t *testing.T, app *fiber.App, payload map[string]string) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/v1/payments/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(respBody, &decoded))
	return resp.StatusCode, decoded
}

func TestPaymentCallbackSuccess(t *testing.T) {
	app, orderRepo, purchasedRepo := setupWebhookApp(t)

	status, body := postCallback(t, app, map[string]string{
		"orderId":   "order-pending",
		"status":    "completed",
		"signature": callbackSignature("order-pending", "completed"),
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	assert.Equal(t, domain.OrderStatusCompleted, orderRepo.orders["order-pending"].Status)
	require.Len(t, purchasedRepo.records, 1, "a completed purchase must create the subscription")
	assert.Equal(t, "order-pending", purchasedRepo.records[0].OrderID)
}

func TestPaymentCallbackFailedStatus(t *testing.T) {
	app, orderRepo, purchasedRepo := setupWebhookApp(t)

	status, body := postCallback(t, app, map[string]string{
		"orderId":   "order-pending",
		"status":    "failed",
		"signature": callbackSignature("order-pending", "failed"),
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	assert.Equal(t, domain.OrderStatusFailed, orderRepo.orders["order-pending"].Status)
	assert.Empty(t, purchasedRepo.records)
}

func TestPaymentCallbackPendingStatusUpdatesOrderOnly(t *testing.T) {
	app, orderRepo, purchasedRepo := setupWebhookApp(t)

	status, body := postCallback(t, app, map[string]string{
		"orderId":   "order-new",
		"status":    "pending",
		"signature": callbackSignature("order-new", "pending"),
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	assert.Equal(t, domain.OrderStatusPending, orderRepo.orders["order-new"].Status,
		"a gateway-reported intermediate status must land on the order")
	assert.Empty(t, purchasedRepo.records)
}

func TestPaymentCallbackInvalidSignature(t *testing.T) {
	app, orderRepo, _ := setupWebhookApp(t)

	status, body := postCallback(t, app, map[string]string{
		"orderId":   "order-pending",
		"status":    "completed",
		"signature": callbackSignature("order-pending", "failed"),
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, domain.OrderStatusPending, orderRepo.orders["order-pending"].Status, "a rejected callback must not touch the order")
}

func TestPaymentCallbackAlreadyProcessed(t *testing.T) {
	app, _, purchasedRepo := setupWebhookApp(t)

	status, body := postCallback(t, app, map[string]string{
		"orderId":   "order-done",
		"status":    "completed",
		"signature": callbackSignature("order-done", "completed"),
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "already processed", body["message"])
	assert.Empty(t, purchasedRepo.records, "replayed callbacks must not duplicate the subscription")
}

func TestPaymentCallbackValidation(t *testing.T) {
	app, _, _ := setupWebhookApp(t)

	tests := []struct {
		name       string
		payload    map[string]string
		wantStatus int
	}{
		{
			name:       "missing order id",
			payload:    map[string]string{"status": "completed", "signature": "x"},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name: "unknown status value",
			payload: map[string]string{
				"orderId":   "order-pending",
				"status":    "refunded",
				"signature": callbackSignature("order-pending", "refunded"),
			},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name: "unknown order",
			payload: map[string]string{
				"orderId":   "order-missing",
				"status":    "completed",
				"signature": callbackSignature("order-missing", "completed"),
			},
			wantStatus: fiber.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postCallback(t, app, tt.payload)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, false, body["success"])
		})
	}
}
