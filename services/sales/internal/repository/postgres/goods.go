package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/database"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/domain"
)

// GoodsRepository implements repository.GoodsRepository by reading the
// items table owned by the inventory service.
type GoodsRepository struct {
	pool database.DBTX
}

// NewGoodsRepository creates a new PostgreSQL-backed goods repository.
func NewGoodsRepository(pool database.DBTX) *GoodsRepository {
	return &GoodsRepository{pool: pool}
}

// ListGoods returns the storefront summary of every item, ordered by name.
func (r *GoodsRepository) ListGoods(ctx context.Context) ([]domain.Good, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price FROM items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list goods: %w", err)
	}
	defer rows.Close()

	var goods []domain.Good
	for rows.Next() {
		var g domain.Good
		if err := rows.Scan(&g.ID, &g.Name, &g.Price); err != nil {
			return nil, fmt.Errorf("scan good row: %w", err)
		}
		goods = append(goods, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate good rows: %w", err)
	}

	return goods, nil
}

// GetGood returns the full catalog view of a single item.
func (r *GoodsRepository) GetGood(ctx context.Context, id uuid.UUID) (*domain.GoodDetail, error) {
	query := `SELECT id, name, category, price, description, stock_count FROM items WHERE id = $1`

	var g domain.GoodDetail
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.Category, &g.Price, &g.Description, &g.StockCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Item not found")
		}
		return nil, fmt.Errorf("get good: %w", err)
	}

	return &g, nil
}
