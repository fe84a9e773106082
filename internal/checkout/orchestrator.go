// Package checkout drives one order submission per explicit user
// confirmation: validate the shipping form and cart, snapshot the cart
// into an order payload, call the order gateway once, and clear the cart
// only on success.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Team-Bodhi/bodhi/internal/cart"
	"github.com/Team-Bodhi/bodhi/internal/domain"
	"github.com/Team-Bodhi/bodhi/pkg/logger"
)

// Submitter performs the single boundary call to the order-creation
// endpoint. It returns the server-assigned order id, and never touches
// the cart.
type Submitter interface {
	Submit(ctx context.Context, token, idempotencyKey string, order *domain.OrderRequest) (string, error)
}

// EventPublisher receives a notification after a successful submission.
// Publish failures are the publisher's problem; the orchestrator result
// never depends on it.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, sessionID string, order *domain.SubmittedOrder) error
}

// Request carries the user's confirmation input for one submission.
type Request struct {
	Token      string
	CustomerID string
	Address    domain.ShippingAddress
	Payment    domain.PaymentMethod
}

// Orchestrator owns the checkout state machine for one session's cart:
// Idle -> Validating -> Submitting -> Succeeded | Failed. Validation
// failures return to Idle with the cart untouched; a gateway failure
// lands in Failed and the next Submit is allowed to try again.
type Orchestrator struct {
	mu        sync.Mutex
	status    Status
	sessionID string
	cart      *cart.Cart
	submitter Submitter
	events    EventPublisher
	lastOrder *domain.SubmittedOrder
	lastError string
}

func NewOrchestrator(sessionID string, c *cart.Cart, submitter Submitter, events EventPublisher) *Orchestrator {
	return &Orchestrator{
		status:    StatusIdle,
		sessionID: sessionID,
		cart:      c,
		submitter: submitter,
		events:    events,
	}
}

// Status returns the current state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// InFlight reports whether a submission is currently outstanding. Cart
// mutations must be rejected while this is true.
func (o *Orchestrator) InFlight() bool {
	return o.Status() == StatusSubmitting
}

// LastOrder returns the snapshot retained after the most recent
// successful submission, or nil.
func (o *Orchestrator) LastOrder() *domain.SubmittedOrder {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastOrder
}

// LastError returns the reason surfaced by the most recent failure.
func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastError
}

// Reset returns the orchestrator to Idle and drops the retained order
// snapshot. Used when the user leaves the confirmation view.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == StatusSubmitting {
		return
	}
	o.status = StatusIdle
	o.lastOrder = nil
	o.lastError = ""
}

// Submit runs one checkout attempt. A duplicate call while a submission
// is outstanding is rejected with ErrSubmissionInFlight before any
// network activity. On success the cart is cleared and the submitted
// order snapshot is retained for display.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*domain.SubmittedOrder, error) {
	order, snapshot, err := o.validate(req)
	if err != nil {
		return nil, err
	}

	key := uuid.NewString()
	orderID, err := o.submitter.Submit(ctx, req.Token, key, order)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.status = StatusFailed
		o.lastError = err.Error()
		logger.Log.Warn("order submission failed",
			zap.String("session_id", o.sessionID),
			zap.String("idempotency_key", key),
			zap.Error(err))
		return nil, err
	}

	submitted := &domain.SubmittedOrder{
		OrderID:  orderID,
		Items:    snapshot,
		Total:    order.TotalPrice,
		Address:  order.Address,
		Payment:  order.Payment,
		PlacedAt: order.OrderDate,
	}

	o.cart.Clear()
	o.status = StatusSucceeded
	o.lastOrder = submitted
	o.lastError = ""

	if o.events != nil {
		if errPub := o.events.OrderPlaced(ctx, o.sessionID, submitted); errPub != nil {
			logger.Log.Warn("order placed event publish failed",
				zap.String("order_id", orderID),
				zap.Error(errPub))
		}
	}

	return submitted, nil
}

// validate checks the request and, if it passes, transitions to
// Submitting and returns the order payload plus a display snapshot of
// the cart. Any validation failure puts the state back to Idle.
func (o *Orchestrator) validate(req Request) (*domain.OrderRequest, []domain.CartLine, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status == StatusSubmitting {
		return nil, nil, ErrSubmissionInFlight
	}

	o.status = StatusValidating
	fail := func(err error) (*domain.OrderRequest, []domain.CartLine, error) {
		o.status = StatusIdle
		return nil, nil, err
	}

	if !req.Address.Complete() {
		return fail(ErrIncompleteShippingInfo)
	}
	if !req.Payment.Valid() {
		return fail(ErrInvalidPaymentMethod)
	}
	if o.cart.IsEmpty() {
		return fail(ErrEmptyCart)
	}
	if req.Token == "" {
		return fail(ErrNotAuthenticated)
	}

	snapshot := o.cart.Lines()
	items := make([]domain.OrderItem, 0, len(snapshot))
	for _, line := range snapshot {
		items = append(items, domain.OrderItem{BookID: line.BookID, Quantity: line.Quantity})
	}

	order := &domain.OrderRequest{
		Items:      items,
		Address:    req.Address,
		Payment:    req.Payment,
		TotalPrice: o.cart.Total(),
		CustomerID: req.CustomerID,
		OrderDate:  time.Now().UTC(),
	}

	o.status = StatusSubmitting
	return order, snapshot, nil
}
