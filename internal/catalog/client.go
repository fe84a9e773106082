// Package catalog reads book records from the bookstore API. Lookups go
// through an optional read-through cache; upstream calls sit behind a
// circuit breaker so a dead catalog fails fast instead of stacking up
// timeouts.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Team-Bodhi/bodhi/internal/domain"
	"github.com/Team-Bodhi/bodhi/pkg/logger"
)

var ErrBookNotFound = errors.New("book not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	cache      BookCache // nil disables caching
	breaker    *gobreaker.CircuitBreaker[[]byte]
	sfg        singleflight.Group // collapses concurrent misses for the same book
}

// NewClient creates a catalog client against baseURL. cache may be nil.
func NewClient(baseURL string, timeout time.Duration, cache BookCache) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A 404 is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrBookNotFound)
		},
	})
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    timeout,
		cache:      cache,
		breaker:    breaker,
	}
}

// ListBooks fetches the full catalog listing. Listings are not cached;
// the storefront renders them straight through.
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	body, err := c.doGet(ctx, "/books")
	if err != nil {
		return nil, err
	}

	var books []domain.Book
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, fmt.Errorf("unmarshal books failed: %w", err)
	}
	return books, nil
}

// GetBook fetches one book, trying the cache first. Cache errors other
// than a miss are logged and bypassed.
func (c *Client) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	if c.cache != nil {
		book, err := c.cache.Get(ctx, bookID)
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Log.Warn("book cache get failed", zap.String("book_id", bookID), zap.Error(err))
		}
	}

	v, err, _ := c.sfg.Do(bookID, func() (interface{}, error) {
		body, err := c.doGet(ctx, "/books/"+bookID)
		if err != nil {
			return nil, err
		}

		var book domain.Book
		if err := json.Unmarshal(body, &book); err != nil {
			return nil, fmt.Errorf("unmarshal book failed: %w", err)
		}

		if c.cache != nil {
			if errSet := c.cache.Set(ctx, &book); errSet != nil {
				logger.Log.Warn("book cache set failed", zap.String("book_id", bookID), zap.Error(errSet))
			}
		}

		return &book, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Book), nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrBookNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("catalog returned %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
}
