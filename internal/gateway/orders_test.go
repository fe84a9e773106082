package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Team-Bodhi/bodhi/internal/domain"
)

func testOrder() *domain.OrderRequest {
	return &domain.OrderRequest{
		Items: []domain.OrderItem{
			{BookID: "b1", Quantity: 2},
			{BookID: "b2", Quantity: 1},
		},
		Address:    domain.ShippingAddress{Street: "123 Main St", City: "Anytown", State: "CA", ZipCode: "12345"},
		Payment:    domain.PaymentCredit,
		TotalPrice: decimal.RequireFromString("39.50"),
		CustomerID: "cust-1",
		OrderDate:  time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestSubmit_Success(t *testing.T) {
	var got map[string]any
	var headers http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/sales", r.URL.Path)
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "sale-123", "orderStatus": "pending"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", time.Second)
	orderID, err := c.Submit(context.Background(), "token-1", "key-1", testOrder())

	require.NoError(t, err)
	assert.Equal(t, "sale-123", orderID)

	assert.Equal(t, "Bearer token-1", headers.Get("Authorization"))
	assert.Equal(t, "key-1", headers.Get("Idempotency-Key"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))

	// Wire format: ids and quantities, no per-line prices.
	assert.Equal(t, "online", got["type"])
	assert.Equal(t, "pending", got["orderStatus"])
	assert.Equal(t, 39.50, got["totalPrice"])
	assert.Equal(t, "credit", got["paymentMethod"])

	items, ok := got["orderItems"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "b1", first["bookId"])
	assert.Equal(t, float64(2), first["quantity"])
	assert.NotContains(t, first, "price")

	addr := got["shippingAddress"].(map[string]any)
	assert.Equal(t, "12345", addr["zipCode"])
}

func TestSubmit_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Error creating sale", "details": "stock exhausted"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	orderID, err := c.Submit(context.Background(), "token-1", "key-1", testOrder())

	assert.Empty(t, orderID)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, http.StatusInternalServerError, subErr.StatusCode)
	assert.Contains(t, subErr.Reason, "Error creating sale")
	assert.Contains(t, subErr.Reason, "stock exhausted")
}

func TestSubmit_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Submit(context.Background(), "token-1", "key-1", testOrder())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, http.StatusBadGateway, subErr.StatusCode)
	assert.Equal(t, "Bad Gateway", subErr.Reason)
}

func TestSubmit_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Submit(context.Background(), "token-1", "key-1", testOrder())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Contains(t, subErr.Reason, "malformed response")
}

func TestSubmit_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.Submit(context.Background(), "token-1", "key-1", testOrder())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Contains(t, subErr.Reason, "timed out")
}

func TestSubmit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, time.Second)
	_, err := c.Submit(context.Background(), "token-1", "key-1", testOrder())

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Contains(t, subErr.Reason, "unreachable")
}

func TestSubmit_NoToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Submit(context.Background(), "", "key-1", testOrder())

	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, called, "no network call without a token")
}
