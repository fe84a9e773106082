package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Team-Bodhi/bodhi/internal/catalog"
	"github.com/Team-Bodhi/bodhi/pkg/logger"
)

type CatalogHandler struct {
	books BookSource
}

func NewCatalogHandler(books BookSource) *CatalogHandler {
	return &CatalogHandler{books: books}
}

func (h *CatalogHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListBooks(r.Context())
	if err != nil {
		logger.Log.Error("catalog list failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err))
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "could not reach the catalog")
		return
	}

	respondJSON(w, http.StatusOK, books)
}

func (h *CatalogHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	book, err := h.books.GetBook(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondError(w, http.StatusNotFound, "book_not_found", "no such book")
			return
		}
		logger.Log.Error("catalog lookup failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("book_id", bookID),
			zap.Error(err))
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "could not reach the catalog")
		return
	}

	respondJSON(w, http.StatusOK, book)
}
