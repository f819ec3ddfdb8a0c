package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/domain"
)

// SaleRepository defines the persistence interface for the sales ledger.
type SaleRepository interface {
	// ProcessSale runs the purchase transaction: lock the item, check
	// stock, lock the customer, check funds, then decrement stock,
	// deduct the wallet and insert the ledger row, all or nothing.
	ProcessSale(ctx context.Context, username string, itemID uuid.UUID) (*domain.SaleResult, error)

	// Create inserts a ledger row directly, with no stock or wallet
	// coupling. Administrative correction primitive.
	Create(ctx context.Context, sale *domain.Sale) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]domain.Sale, int, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]domain.Sale, int, error)
	UpdateAmount(ctx context.Context, id uuid.UUID, amount float64) (*domain.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GoodsRepository defines read access to the catalog for the
// storefront goods endpoints.
type GoodsRepository interface {
	ListGoods(ctx context.Context) ([]domain.Good, error)
	GetGood(ctx context.Context, id uuid.UUID) (*domain.GoodDetail, error)
}

// GoodsCache caches the goods listing. A miss is reported via the
// second return value, not an error.
type GoodsCache interface {
	Get(ctx context.Context) ([]domain.Good, bool, error)
	Set(ctx context.Context, goods []domain.Good) error
	Invalidate(ctx context.Context) error
}
