package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeCatalog(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	books := map[string]map[string]any{
		"b1": {"_id": "b1", "title": "Dune", "author": "Frank Herbert", "genre": "Science Fiction", "price": 15.00, "quantity": 10},
		"b2": {"_id": "b2", "title": "Hyperion", "author": "Dan Simmons", "genre": "Science Fiction", "price": 9.50, "quantity": 3},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		list := []map[string]any{books["b1"], books["b2"]}
		_ = json.NewEncoder(w).Encode(list)
	})
	mux.HandleFunc("/books/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		id := r.URL.Path[len("/books/"):]
		book, ok := books[id]
		if !ok {
			http.Error(w, `{"error":"Book not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(book)
	})

	return httptest.NewServer(mux)
}

func TestListBooks(t *testing.T) {
	var hits atomic.Int64
	srv := fakeCatalog(t, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	books, err := c.ListBooks(context.Background())

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, 10, books[0].Quantity)
	assert.True(t, books[1].Price.Equal(decimal.NewFromFloat(9.50)))
}

func TestGetBook_NoCache(t *testing.T) {
	var hits atomic.Int64
	srv := fakeCatalog(t, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)

	book, err := c.GetBook(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	_, err = c.GetBook(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load(), "every lookup goes upstream without a cache")
}

func TestGetBook_NotFound(t *testing.T) {
	var hits atomic.Int64
	srv := fakeCatalog(t, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	book, err := c.GetBook(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.Nil(t, book)
}

func TestGetBook_ReadThroughCache(t *testing.T) {
	var hits atomic.Int64
	srv := fakeCatalog(t, &hits)
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	c := NewClient(srv.URL, time.Second, NewRedisCache(rdb))

	book, err := c.GetBook(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, int64(1), hits.Load())

	// Second lookup is served from the cache.
	book, err = c.GetBook(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, int64(1), hits.Load(), "cache hit must not go upstream")
}

func TestGetBook_CacheDownFallsThrough(t *testing.T) {
	var hits atomic.Int64
	srv := fakeCatalog(t, &hits)
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close() // cache broken from the start

	c := NewClient(srv.URL, time.Second, NewRedisCache(rdb))

	book, err := c.GetBook(context.Background(), "b1")
	require.NoError(t, err, "cache failures must not fail the lookup")
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, int64(1), hits.Load())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)

	for i := 0; i < 5; i++ {
		_, err := c.ListBooks(context.Background())
		require.Error(t, err)
	}

	srv.Close()
	_, err := c.ListBooks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}
