package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Team-Bodhi/bodhi/internal/checkout"
	"github.com/Team-Bodhi/bodhi/internal/domain"
	"github.com/Team-Bodhi/bodhi/internal/gateway"
	"github.com/Team-Bodhi/bodhi/internal/session"
)

type CheckoutHandler struct{}

func NewCheckoutHandler() *CheckoutHandler {
	return &CheckoutHandler{}
}

type CheckoutRequestDTO struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

type CheckoutStateView struct {
	Status    string                 `json:"status"`
	LastOrder *domain.SubmittedOrder `json:"lastOrder,omitempty"`
	LastError string                 `json:"lastError,omitempty"`
}

// Submit drives one checkout confirmation for the session's cart.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	submitted, err := sess.Checkout.Submit(r.Context(), checkout.Request{
		Token:      sess.Token,
		CustomerID: sess.CustomerID(),
		Address:    req.ShippingAddress,
		Payment:    domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}

	sess.NavigateTo(session.PageConfirmation, "")
	respondJSON(w, http.StatusCreated, submitted)
}

// State returns the confirmation-view data: current status, the last
// submitted order and the last failure reason.
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}

	respondJSON(w, http.StatusOK, CheckoutStateView{
		Status:    sess.Checkout.Status().String(),
		LastOrder: sess.Checkout.LastOrder(),
		LastError: sess.Checkout.LastError(),
	})
}

// Reset leaves the confirmation view: back to Idle, snapshot dropped,
// session returned to the main page.
func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}

	sess.Checkout.Reset()
	sess.NavigateTo(session.PageMain, "")
	respondJSON(w, http.StatusOK, CheckoutStateView{Status: sess.Checkout.Status().String()})
}

func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, err error) {
	var subErr *gateway.SubmissionError

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
	case errors.Is(err, checkout.ErrIncompleteShippingInfo):
		respondError(w, http.StatusBadRequest, "incomplete_shipping_info", "please fill in all shipping information")
	case errors.Is(err, checkout.ErrInvalidPaymentMethod):
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "payment method must be credit or debit")
	case errors.Is(err, checkout.ErrNotAuthenticated), errors.Is(err, gateway.ErrNoToken):
		respondError(w, http.StatusUnauthorized, "not_authenticated", "sign in to place an order")
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", "an order is already being submitted")
	case errors.As(err, &subErr):
		respondError(w, http.StatusBadGateway, "submission_failed", subErr.Reason)
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
