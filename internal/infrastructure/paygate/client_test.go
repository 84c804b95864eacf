package paygate

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey     = "test-api-key-secret"
	testMerchantID = "MERCHANT_42"
)

func signBody(t *testing.T, body []byte) string {
	t.Helper()
	bodyHash := sha256.Sum256(body)
	stringToSign := "POST:" + testMerchantID + ":" + hex.EncodeToString(bodyHash[:]) + ":" + testAPIKey
	mac := hmac.New(sha256.New, []byte(testAPIKey))
	mac.Write([]byte(stringToSign))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreatePaymentURLSendsSignedRequest(t *testing.T) {
	var gotPath, gotMerchant, gotSignature, gotTimestamp string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMerchant = r.Header.Get("merchant")
		gotSignature = r.Header.Get("signature")
		gotTimestamp = r.Header.Get("timestamp")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"message":"ok","data":"https://pay.example.com/checkout/abc"}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:    server.URL,
		APIKey:     testAPIKey,
		MerchantID: testMerchantID,
	})

	url, err := client.CreatePaymentURL(context.Background(), PaymentURLRequest{
		Amount:    99000,
		Locale:    "vi",
		OrderID:   "01J0ORDER",
		Partner:   "web",
		ClientIP:  "203.0.113.9",
		ReturnURL: "https://app.example.com/return",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/checkout/abc", url)

	assert.Equal(t, "/api/v1/payment/url", gotPath)
	assert.Equal(t, testMerchantID, gotMerchant)
	assert.Equal(t, signBody(t, gotBody), gotSignature, "signature must cover the exact wire body")
	assert.Contains(t, string(gotBody), `"orderId":"01J0ORDER"`)
	assert.Contains(t, string(gotBody), `"amount":99000`)

	ts, err := strconv.ParseInt(gotTimestamp, 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Unix(), ts, 60)
}

func TestCreatePaymentURLGatewayErrors(t *testing.T) {
	tests := []struct {
		name       string
		httpStatus int
		body       string
		wantErr    string
	}{
		{
			name:       "non-200 http status",
			httpStatus: http.StatusBadGateway,
			body:       `upstream down`,
			wantErr:    "status 502",
		},
		{
			name:       "gateway-level failure",
			httpStatus: http.StatusOK,
			body:       `{"status":400,"message":"invalid merchant","data":""}`,
			wantErr:    "invalid merchant",
		},
		{
			name:       "empty payment url",
			httpStatus: http.StatusOK,
			body:       `{"status":200,"message":"ok","data":""}`,
			wantErr:    "empty payment url",
		},
		{
			name:       "malformed response body",
			httpStatus: http.StatusOK,
			body:       `not json`,
			wantErr:    "failed to parse response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.httpStatus)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL, APIKey: testAPIKey, MerchantID: testMerchantID})
			_, err := client.CreatePaymentURL(context.Background(), PaymentURLRequest{OrderID: "o1"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVerifyCallbackSignature(t *testing.T) {
	sign := func(orderID, status string) string {
		mac := hmac.New(sha256.New, []byte(testAPIKey))
		mac.Write([]byte(orderID + "." + status))
		return hex.EncodeToString(mac.Sum(nil))
	}

	valid := sign("order-1", "completed")

	tests := []struct {
		name    string
		orderID string
		status  string
		sig     string
		want    bool
	}{
		{name: "valid signature", orderID: "order-1", status: "completed", sig: valid, want: true},
		{name: "empty signature", orderID: "order-1", status: "completed", sig: "", want: false},
		{name: "wrong order", orderID: "order-2", status: "completed", sig: valid, want: false},
		{name: "wrong status", orderID: "order-1", status: "failed", sig: valid, want: false},
		{name: "uppercase hex rejected", orderID: "order-1", status: "completed", sig: strings.ToUpper(valid), want: false},
		{name: "signed with other key", orderID: "order-1", status: "completed",
			sig: func() string {
				mac := hmac.New(sha256.New, []byte("other-key"))
				mac.Write([]byte("order-1.completed"))
				return hex.EncodeToString(mac.Sum(nil))
			}(), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyCallbackSignature(testAPIKey, tt.orderID, tt.status, tt.sig)
			assert.Equal(t, tt.want, got)
		})
	}
}
