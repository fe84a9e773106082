package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Team-Bodhi/bodhi/internal/session"
)

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type SessionView struct {
	SessionID      string `json:"sessionId"`
	Page           string `json:"page"`
	PageContext    string `json:"pageContext,omitempty"`
	Authenticated  bool   `json:"authenticated"`
	CheckoutStatus string `json:"checkoutStatus"`
	CartItems      int    `json:"cartItems"`
}

type NavigateRequestDTO struct {
	Page    string `json:"page"`
	Context string `json:"context"`
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}

	respondJSON(w, http.StatusOK, SessionView{
		SessionID:      sess.ID,
		Page:           string(sess.Page),
		PageContext:    sess.PageContext,
		Authenticated:  sess.Authenticated(),
		CheckoutStatus: sess.Checkout.Status().String(),
		CartItems:      sess.Cart.Len(),
	})
}

// Navigate sets the current page. Pages form an open set known to the
// caller, so there is nothing to validate beyond non-emptiness.
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}

	var req NavigateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Page == "" {
		respondError(w, http.StatusBadRequest, "invalid_page", "page is required")
		return
	}

	sess.NavigateTo(session.Page(req.Page), req.Context)
	h.GetSession(w, r)
}
