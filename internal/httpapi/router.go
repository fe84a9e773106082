package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Team-Bodhi/bodhi/internal/session"
)

// NewRouter wires the storefront's HTTP surface.
func NewRouter(sessions *session.Manager, books BookSource, authn Authenticator, requestTimeout time.Duration) http.Handler {
	cartHandler := NewCartHandler(books)
	checkoutHandler := NewCheckoutHandler()
	catalogHandler := NewCatalogHandler(books)
	authHandler := NewAuthHandler(authn)
	sessionHandler := NewSessionHandler()

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(sessions))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{index}", cartHandler.UpdateQuantity)
			r.Delete("/items/{index}", cartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.State)
			r.Post("/", checkoutHandler.Submit)
			r.Post("/reset", checkoutHandler.Reset)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", catalogHandler.ListBooks)
			r.Get("/{id}", catalogHandler.GetBook)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSession)
			r.Post("/page", sessionHandler.Navigate)
		})
	})

	return r
}
