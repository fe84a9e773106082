// Package gateway is the single boundary to the bookstore order API.
// One submission is one POST; failures of any shape come back as a
// SubmissionError and are never retried here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Team-Bodhi/bodhi/internal/domain"
	"github.com/Team-Bodhi/bodhi/pkg/logger"
)

// ErrNoToken is returned before any network activity when the session
// carries no auth token.
var ErrNoToken = errors.New("not authenticated: no auth token present")

// SubmissionError is any failed submission attempt: non-2xx status,
// transport error, timeout or malformed response body.
type SubmissionError struct {
	StatusCode int // 0 when the request never completed
	Reason     string
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("order submission failed (%d): %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("order submission failed: %s", e.Reason)
}

// DefaultSubmitTimeout bounds a single submission attempt.
const DefaultSubmitTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates an order gateway against baseURL (e.g.
// "http://localhost:3000/api"). A non-positive timeout falls back to
// DefaultSubmitTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// orderPayload is the wire format of POST /sales. Per-line prices are
// intentionally absent; the server re-prices each line and treats
// totalPrice as advisory.
type orderPayload struct {
	Type            string                 `json:"type"`
	OrderItems      []domain.OrderItem     `json:"orderItems"`
	OrderStatus     string                 `json:"orderStatus"`
	OrderDate       string                 `json:"orderDate"`
	TotalPrice      float64                `json:"totalPrice"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	CustomerID      string                 `json:"customerId,omitempty"`
}

type createdOrder struct {
	ID string `json:"_id"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Submit performs one network call to the order-creation endpoint and
// returns the server-assigned order id. It never mutates the cart and
// never retries.
func (c *Client) Submit(ctx context.Context, token, idempotencyKey string, order *domain.OrderRequest) (string, error) {
	if token == "" {
		return "", ErrNoToken
	}

	payload := orderPayload{
		Type:            "online",
		OrderItems:      order.Items,
		OrderStatus:     "pending",
		OrderDate:       order.OrderDate.Format(time.RFC3339),
		TotalPrice:      order.TotalPrice.InexactFloat64(),
		PaymentMethod:   order.Payment,
		ShippingAddress: order.Address,
		CustomerID:      order.CustomerID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &SubmissionError{Reason: fmt.Sprintf("marshal order: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sales", bytes.NewReader(body))
	if err != nil {
		return "", &SubmissionError{Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &SubmissionError{Reason: "timed out waiting for the order service"}
		}
		return "", &SubmissionError{Reason: fmt.Sprintf("order service unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SubmissionError{StatusCode: resp.StatusCode, Reason: readErrorReason(resp)}
	}

	var created createdOrder
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil || created.ID == "" {
		logger.Log.Warn("order created but response body was unusable",
			zap.Int("status", resp.StatusCode), zap.Error(err))
		return "", &SubmissionError{StatusCode: resp.StatusCode, Reason: "malformed response from order service"}
	}

	return created.ID, nil
}

// readErrorReason extracts the best-available reason string from a
// non-2xx response.
func readErrorReason(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		if body.Details != "" {
			return body.Error + ": " + body.Details
		}
		return body.Error
	}
	return http.StatusText(resp.StatusCode)
}
