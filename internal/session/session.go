// Package session holds per-visitor state for the storefront: the cart,
// the checkout orchestrator, the auth token and the current page. State
// lives in memory for the lifetime of the session only; everything
// durable belongs to the bookstore API.
package session

import (
	"time"

	"github.com/Team-Bodhi/bodhi/internal/cart"
	"github.com/Team-Bodhi/bodhi/internal/checkout"
	"github.com/Team-Bodhi/bodhi/internal/domain"
)

// Page identifies the screen the session is on. Pages form an open set
// known to the caller; any page may navigate to any other.
type Page string

const (
	PageMain         Page = "main"
	PageCheckout     Page = "checkout"
	PageConfirmation Page = "confirmation"
	PageLogin        Page = "login"
)

// Session is the explicit context one visitor's interactions run
// against. Each session processes one interaction at a time, so fields
// are mutated without a lock; the Manager guards only its own registry.
type Session struct {
	ID          string
	Page        Page
	PageContext string // e.g. the book id being viewed
	LastAction  string // transient banner text, cleared on read

	Token string
	User  *domain.User

	Cart     *cart.Cart
	Checkout *checkout.Orchestrator

	LastSeen time.Time
}

// NavigateTo sets the current page and its optional context.
func (s *Session) NavigateTo(page Page, context string) {
	s.Page = page
	s.PageContext = context
}

// Authenticated reports whether the session carries an auth token.
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// SetAuth stores the login result.
func (s *Session) SetAuth(token string, user *domain.User) {
	s.Token = token
	s.User = user
}

// ClearAuth drops the token, the user and the cart, matching the
// storefront's logout behavior.
func (s *Session) ClearAuth() {
	s.Token = ""
	s.User = nil
	s.Cart.Clear()
}

// TakeLastAction returns the pending banner text and clears it.
func (s *Session) TakeLastAction() string {
	action := s.LastAction
	s.LastAction = ""
	return action
}

// CustomerID returns the profile id for order payloads, or "" for a
// guest checkout path that never gets past the auth gate.
func (s *Session) CustomerID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}
