package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// GatewayOrder is a payment intent created with the gateway. The ID
// initializes the client-side checkout widget.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentGateway abstracts the external payment processor.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// RazorpayClient talks to the Razorpay Orders API.
type RazorpayClient struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpayClient creates a new RazorpayClient.
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   razorpayBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// KeyID returns the public key used by the checkout widget.
func (r *RazorpayClient) KeyID() string {
	return r.keyID
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers a payment intent with the gateway. Amount is in
// minor units.
func (r *RazorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error) {
	payload, err := json.Marshal(razorpayOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Provider: "razorpay", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Provider: "razorpay", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp razorpayErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Description != "" {
			return nil, &GatewayError{Provider: "razorpay", Err: fmt.Errorf("%s", errResp.Error.Description)}
		}
		return nil, &GatewayError{Provider: "razorpay", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var order GatewayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, &GatewayError{Provider: "razorpay", Err: err}
	}

	return &order, nil
}

// VerifySignature recomputes the HMAC-SHA256 the gateway signs over
// "<orderID>|<paymentID>" and compares it in constant time. This is the
// sole proof that the payment succeeded and was not forged client-side.
func (r *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(r.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
