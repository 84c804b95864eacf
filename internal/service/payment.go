package service

import (
	"context"
	"fmt"
	"log"

	"github.com/matchpoint-app/matchpoint/internal/config"
	"github.com/matchpoint-app/matchpoint/internal/infrastructure/paygate"
	"github.com/oklog/ulid/v2"
)

// PaymentRequest carries everything the gateway needs to issue a hosted
// payment URL for an order
type PaymentRequest struct {
	Amount    int64
	Locale    string
	OrderID   string
	Partner   string
	ClientIP  string
	ReturnURL string
}

// PaymentProvider defines the interface for the payment microservice
type PaymentProvider interface {
	// CreatePaymentURL returns the hosted redirect URL for the request
	CreatePaymentURL(ctx context.Context, req PaymentRequest) (string, error)
}

// MockPaymentProvider is a mock implementation of PaymentProvider for development
type MockPaymentProvider struct{}

// PayGateAdapter adapts the paygate.Client to the PaymentProvider interface
type PayGateAdapter struct {
	client *paygate.Client
}

// NewPaymentProvider returns the appropriate PaymentProvider based on config.
// If no API key is configured, returns a mock provider for development.
func NewPaymentProvider(cfg config.PaymentConfig) PaymentProvider {
	if cfg.APIKey == "" || cfg.BaseURL == "" {
		log.Println("[Payment] Using mock payment provider (no credentials configured)")
		return &MockPaymentProvider{}
	}

	log.Printf("[Payment] Using payment gateway client (base: %s)", cfg.BaseURL)
	client := paygate.NewClient(paygate.Config{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		MerchantID: cfg.MerchantID,
	})

	return &PayGateAdapter{client: client}
}

// CreatePaymentURL generates a deterministic-looking mock redirect URL
func (m *MockPaymentProvider) CreatePaymentURL(ctx context.Context, req PaymentRequest) (string, error) {
	sessionID := ulid.Make().String()
	return fmt.Sprintf("https://pay.mock.local/checkout/%s?order=%s&amount=%d",
		sessionID, req.OrderID, req.Amount), nil
}

// CreatePaymentURL requests a real hosted payment URL from the gateway
func (a *PayGateAdapter) CreatePaymentURL(ctx context.Context, req PaymentRequest) (string, error) {
	url, err := a.client.CreatePaymentURL(ctx, paygate.PaymentURLRequest{
		Amount:    req.Amount,
		Locale:    req.Locale,
		OrderID:   req.OrderID,
		Partner:   req.Partner,
		ClientIP:  req.ClientIP,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		log.Printf("[Payment] Gateway error: %v", err)
		return "", fmt.Errorf("payment provider error: %w", err)
	}
	return url, nil
}
