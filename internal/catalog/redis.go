package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Team-Bodhi/bodhi/internal/domain"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

// RedisCache caches catalog records. Books are read-only from the
// storefront's point of view, so entries just age out on TTL.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	key := cacheKey(bookID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var book domain.Book
	if err2 := json.Unmarshal(data, &book); err2 != nil {
		return nil, fmt.Errorf("unmarshal book failed: %w", err2)
	}

	return &book, nil
}

func (r RedisCache) Set(ctx context.Context, book *domain.Book) error {
	key := cacheKey(book.ID)
	jsonBook, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, key, string(jsonBook), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(bookID string) string {
	return fmt.Sprintf("book:%s", bookID)
}
