package paygate

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Config holds payment microservice configuration
type Config struct {
	BaseURL    string
	APIKey     string
	MerchantID string
}

// Client is the HTTP client for the payment microservice
type Client struct {
	config     Config
	httpClient *http.Client
}

// PaymentURLRequest represents the request body for a hosted payment URL
type PaymentURLRequest struct {
	Amount    int64  `json:"amount"`
	Locale    string `json:"locale"`
	OrderID   string `json:"orderId"`
	Partner   string `json:"partner"`
	ClientIP  string `json:"clientIp"`
	ReturnURL string `json:"returnUrl"`
}

// PaymentURLResponse represents the payment microservice response
type PaymentURLResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    string `json:"data"` // Hosted payment redirect URL
}

// NewClient creates a new payment gateway client
func NewClient(cfg Config) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// generateSignature creates the HMAC-SHA256 signature for the gateway
// Step 1: bodyHash = lowercase(sha256(jsonBody))
// Step 2: stringToSign = METHOD + ":" + merchantID + ":" + bodyHash + ":" + apiKey
// Step 3: signature = lowercase(hmacSha256(apiKey, stringToSign))
func (c *Client) generateSignature(jsonBody []byte, method string) string {
	bodyHashBytes := sha256.Sum256(jsonBody)
	bodyHash := strings.ToLower(hex.EncodeToString(bodyHashBytes[:]))

	stringToSign := fmt.Sprintf("%s:%s:%s:%s", method, c.config.MerchantID, bodyHash, c.config.APIKey)

	h := hmac.New(sha256.New, []byte(c.config.APIKey))
	h.Write([]byte(stringToSign))
	return strings.ToLower(hex.EncodeToString(h.Sum(nil)))
}

// CreatePaymentURL requests a hosted payment redirect URL for an order
func (c *Client) CreatePaymentURL(ctx context.Context, req PaymentURLRequest) (string, error) {
	endpoint := "/api/v1/payment/url"
	url := c.config.BaseURL + endpoint

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	signature := c.generateSignature(jsonBody, "POST")

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("merchant", c.config.MerchantID)
	httpReq.Header.Set("signature", signature)
	httpReq.Header.Set("timestamp", fmt.Sprintf("%d", time.Now().Unix()))

	log.Printf("[PayGate] Calling %s for order %s, amount %d", url, req.OrderID, req.Amount)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment gateway error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var apiResp PaymentURLResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if apiResp.Status != 200 {
		return "", fmt.Errorf("payment gateway error: %s", apiResp.Message)
	}
	if apiResp.Data == "" {
		return "", fmt.Errorf("payment gateway returned empty payment url")
	}

	return apiResp.Data, nil
}

// VerifyCallbackSignature validates the HMAC-SHA256 signature on an
// inbound payment notification
// Formula: hmac_sha256(apiKey, orderID + "." + status)
func VerifyCallbackSignature(apiKey, orderID, status, providedSig string) bool {
	if providedSig == "" {
		return false
	}

	stringToSign := orderID + "." + status
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(stringToSign))
	expectedSig := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expectedSig), []byte(providedSig))
}
