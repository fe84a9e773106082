package catalog

import (
	"context"
	"errors"

	"github.com/Team-Bodhi/bodhi/internal/domain"
)

type BookCache interface {
	Get(ctx context.Context, bookID string) (*domain.Book, error)
	Set(ctx context.Context, book *domain.Book) error
}

var ErrCacheMiss = errors.New("cache miss")
