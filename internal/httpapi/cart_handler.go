package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Team-Bodhi/bodhi/internal/cart"
	"github.com/Team-Bodhi/bodhi/internal/catalog"
	"github.com/Team-Bodhi/bodhi/internal/domain"
	"github.com/Team-Bodhi/bodhi/internal/session"
	"github.com/Team-Bodhi/bodhi/pkg/logger"
)

// maxLineQuantity bounds a single cart line at the HTTP edge.
const maxLineQuantity = 99

// BookSource resolves catalog records; satisfied by *catalog.Client.
type BookSource interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, bookID string) (*domain.Book, error)
}

type CartHandler struct {
	books BookSource
}

func NewCartHandler(books BookSource) *CartHandler {
	return &CartHandler{books: books}
}

type AddItemRequestDTO struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartLineView struct {
	Index     int    `json:"index"`
	BookID    string `json:"bookId"`
	Title     string `json:"title"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type CartView struct {
	Items       []CartLineView `json:"items"`
	TotalAmount string         `json:"totalAmount"`
	LastAction  string         `json:"lastAction,omitempty"`
}

func cartView(sess *session.Session) CartView {
	lines := sess.Cart.Lines()
	items := make([]CartLineView, 0, len(lines))
	for i, line := range lines {
		items = append(items, CartLineView{
			Index:     i,
			BookID:    line.BookID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal().StringFixed(2),
		})
	}
	return CartView{
		Items:       items,
		TotalAmount: sess.Cart.Total().StringFixed(2),
		LastAction:  sess.TakeLastAction(),
	}
}

// guardCheckout rejects cart mutations while a submission is outstanding
// for this session's cart.
func guardCheckout(w http.ResponseWriter, sess *session.Session) bool {
	if sess.Checkout.InFlight() {
		respondError(w, http.StatusConflict, "checkout_in_progress", "cart is locked while an order is being submitted")
		return false
	}
	return true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}

	respondJSON(w, http.StatusOK, cartView(sess))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}
	if !guardCheckout(w, sess) {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.BookID == "" {
		respondError(w, http.StatusBadRequest, "invalid_book_id", "bookId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 || req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", fmt.Sprintf("quantity must be between 1 and %d", maxLineQuantity))
		return
	}

	book, err := h.books.GetBook(r.Context(), req.BookID)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondError(w, http.StatusNotFound, "book_not_found", "no such book")
			return
		}
		logger.Log.Error("catalog lookup failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("book_id", req.BookID),
			zap.Error(err))
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "could not reach the catalog")
		return
	}

	if err := sess.Cart.AddItem(*book, req.Quantity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
		return
	}

	sess.LastAction = fmt.Sprintf("Added %s to cart", book.Title)
	respondJSON(w, http.StatusCreated, cartView(sess))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}
	if !guardCheckout(w, sess) {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_index", "line index must be an integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", fmt.Sprintf("quantity must be between 1 and %d", maxLineQuantity))
		return
	}

	if err := sess.Cart.UpdateQuantity(index, req.Quantity); err != nil {
		h.respondCartError(w, r, err, index)
		return
	}

	respondJSON(w, http.StatusOK, cartView(sess))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}
	if !guardCheckout(w, sess) {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_index", "line index must be an integer")
		return
	}

	if err := sess.Cart.RemoveItem(index); err != nil {
		h.respondCartError(w, r, err, index)
		return
	}

	respondJSON(w, http.StatusOK, cartView(sess))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "no_session", "session missing from request")
		return
	}
	if !guardCheckout(w, sess) {
		return
	}

	sess.Cart.Clear()
	respondJSON(w, http.StatusOK, cartView(sess))
}

func (h *CartHandler) respondCartError(w http.ResponseWriter, r *http.Request, err error, index int) {
	switch {
	case errors.Is(err, cart.ErrIndexOutOfRange):
		// UI and cart state disagree about line indexes; log it as a defect.
		logger.Log.Error("cart line index out of range",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Int("index", index))
		respondError(w, http.StatusNotFound, "line_not_found", "no cart line at that index")
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
