package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/database"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/domain"
)

// ItemRepository implements repository.ItemRepository using PostgreSQL.
type ItemRepository struct {
	pool database.DBTX
}

// NewItemRepository creates a new PostgreSQL-backed item repository.
func NewItemRepository(pool database.DBTX) *ItemRepository {
	return &ItemRepository{pool: pool}
}

const itemColumns = `id, name, category, price, description, stock_count, created_at, updated_at`

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID,
		&it.Name,
		&it.Category,
		&it.Price,
		&it.Description,
		&it.StockCount,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Item not found")
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &it, nil
}

// Create inserts a new item.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, name, category, price, description, stock_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.Price,
		item.Description,
		item.StockCount,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by its ID.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

// List returns a page of items ordered by name.
func (r *ItemRepository) List(ctx context.Context, params pagination.Params) ([]domain.Item, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := `
		SELECT ` + itemColumns + `
		FROM items
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(
			&it.ID,
			&it.Name,
			&it.Category,
			&it.Price,
			&it.Description,
			&it.StockCount,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate item rows: %w", err)
	}

	return items, total, nil
}

// Update modifies an existing item.
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	item.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE items
		SET name = $1, category = $2, price = $3, description = $4,
		    stock_count = $5, updated_at = $6
		WHERE id = $7`

	ct, err := r.pool.Exec(ctx, query,
		item.Name,
		item.Category,
		item.Price,
		item.Description,
		item.StockCount,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Item not found")
	}

	return nil
}

// Delete removes an item by ID.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Item not found")
	}

	return nil
}

// DeleteAll removes every item from the catalog.
func (r *ItemRepository) DeleteAll(ctx context.Context) (int, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM items`)
	if err != nil {
		return 0, fmt.Errorf("delete all items: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

// DeductOne decrements the stock count by one inside a transaction. The
// item row is locked so concurrent deductions serialize; a movement row
// is written in the same transaction.
func (r *ItemRepository) DeductOne(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin deduct transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var stock int
	lockQuery := `SELECT stock_count FROM items WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRow(ctx, lockQuery, id).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Item not found")
		}
		return nil, fmt.Errorf("lock item row: %w", err)
	}

	if stock <= 0 {
		return nil, apperrors.OutOfStock("No stock available to deduct")
	}

	updateQuery := `
		UPDATE items
		SET stock_count = stock_count - 1, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + itemColumns

	item, err := scanItem(tx.QueryRow(ctx, updateQuery, id))
	if err != nil {
		return nil, err
	}

	movementQuery := `
		INSERT INTO stock_movements (id, item_id, quantity_change, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.Exec(ctx, movementQuery,
		uuid.New(), id, -1, domain.MovementReasonAdjustment, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert stock movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit deduct transaction: %w", err)
	}

	return item, nil
}

// RecordMovement appends a stock movement audit row.
func (r *ItemRepository) RecordMovement(ctx context.Context, m *domain.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, item_id, quantity_change, reason, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.ItemID, m.QuantityChange, m.Reason, m.ReferenceID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}

	return nil
}

// ListMovements returns a page of stock movements for one item, newest first.
func (r *ItemRepository) ListMovements(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]domain.StockMovement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM stock_movements WHERE item_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, itemID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	query := `
		SELECT id, item_id, quantity_change, reason, reference_id, created_at
		FROM stock_movements
		WHERE item_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, itemID, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.QuantityChange, &m.Reason, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock movement row: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stock movement rows: %w", err)
	}

	return movements, total, nil
}
