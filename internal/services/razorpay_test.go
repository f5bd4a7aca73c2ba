package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRazorpayClient_VerifySignature(t *testing.T) {
	client := NewRazorpayClient("rzp_test_key", "secret")

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_1|pay_1"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifySignature("order_1", "pay_1", valid))
	assert.False(t, client.VerifySignature("order_1", "pay_1", valid[:len(valid)-1]+"0"))
	assert.False(t, client.VerifySignature("order_2", "pay_1", valid))
	assert.False(t, client.VerifySignature("order_1", "pay_1", ""))
}

func TestRazorpayClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)

		var req razorpayOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(49900), req.Amount)

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_xyz",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewRazorpayClient("rzp_test_key", "secret")
	client.baseURL = srv.URL

	order, err := client.CreateOrder(context.Background(), 49900, "INR", "rcpt_1")
	require.NoError(t, err)
	assert.Equal(t, "order_xyz", order.ID)
	assert.Equal(t, int64(49900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
}

func TestRazorpayClient_CreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"code":        "BAD_REQUEST_ERROR",
				"description": "The amount must be at least INR 1.00",
			},
		})
	}))
	defer srv.Close()

	client := NewRazorpayClient("rzp_test_key", "secret")
	client.baseURL = srv.URL

	_, err := client.CreateOrder(context.Background(), 1, "INR", "rcpt_1")
	var gatewayErr *GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	// The provider's message is passed through to the caller.
	assert.Contains(t, gatewayErr.Error(), "The amount must be at least INR 1.00")
}
