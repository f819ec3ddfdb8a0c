package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/domain"
)

// ItemRepository defines persistence operations for catalog items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	List(ctx context.Context, params pagination.Params) ([]domain.Item, int, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every item and returns the number deleted.
	DeleteAll(ctx context.Context) (int, error)

	// DeductOne atomically decrements the stock count by one and records
	// the movement. The stock count never goes negative.
	DeductOne(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// RecordMovement appends a stock movement audit row.
	RecordMovement(ctx context.Context, m *domain.StockMovement) error
	ListMovements(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]domain.StockMovement, int, error)
}
