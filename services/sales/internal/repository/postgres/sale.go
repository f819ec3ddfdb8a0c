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
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/domain"
)

// SaleRepository implements repository.SaleRepository using PostgreSQL.
type SaleRepository struct {
	pool database.DBTX
}

// NewSaleRepository creates a new PostgreSQL-backed sale repository.
func NewSaleRepository(pool database.DBTX) *SaleRepository {
	return &SaleRepository{pool: pool}
}

const saleColumns = `id, customer_id, item_id, amount, created_at`

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(&s.ID, &s.CustomerID, &s.ItemID, &s.Amount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Sale not found")
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return &s, nil
}

// ProcessSale executes the purchase as a single transaction. Checks run
// in a fixed order: item existence, stock, customer existence, funds.
// Both rows are locked for the duration, so two concurrent sales cannot
// both take the last unit or the last funds. Locks are taken item
// first, customer second.
func (r *SaleRepository) ProcessSale(ctx context.Context, username string, itemID uuid.UUID) (*domain.SaleResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin sale transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		itemName string
		price    float64
		stock    int
	)
	itemQuery := `SELECT name, price, stock_count FROM items WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRow(ctx, itemQuery, itemID).Scan(&itemName, &price, &stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Item not found")
		}
		return nil, fmt.Errorf("lock item row: %w", err)
	}

	if stock <= 0 {
		return nil, apperrors.OutOfStock("Item is out of stock")
	}

	var (
		customerID uuid.UUID
		balance    float64
	)
	customerQuery := `SELECT id, wallet_balance FROM customers WHERE username = $1 FOR UPDATE`
	if err := tx.QueryRow(ctx, customerQuery, username).Scan(&customerID, &balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Customer not found")
		}
		return nil, fmt.Errorf("lock customer row: %w", err)
	}

	if balance < price {
		return nil, apperrors.InsufficientFunds("Insufficient funds")
	}

	stockQuery := `UPDATE items SET stock_count = stock_count - 1, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, stockQuery, itemID); err != nil {
		return nil, fmt.Errorf("deduct stock: %w", err)
	}

	walletQuery := `UPDATE customers SET wallet_balance = wallet_balance - $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.Exec(ctx, walletQuery, price, customerID); err != nil {
		return nil, fmt.Errorf("deduct wallet: %w", err)
	}

	saleID := uuid.New()
	saleQuery := `
		INSERT INTO sales (id, customer_id, item_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, saleQuery, saleID, customerID, itemID, price, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sale transaction: %w", err)
	}

	return &domain.SaleResult{
		SaleID:           saleID,
		CustomerUsername: username,
		ItemID:           itemID,
		ItemName:         itemName,
		Amount:           price,
	}, nil
}

// Create inserts a ledger row directly, bypassing stock and wallet.
func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, customer_id, item_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		sale.ID, sale.CustomerID, sale.ItemID, sale.Amount, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

// GetByID retrieves a sale by its ID.
func (r *SaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSale(r.pool.QueryRow(ctx, query, id))
}

// ListByCustomer returns a page of ledger rows for one customer, newest first.
func (r *SaleRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]domain.Sale, int, error) {
	return r.listBy(ctx, "customer_id", customerID, params)
}

// ListByItem returns a page of ledger rows for one item, newest first.
func (r *SaleRepository) ListByItem(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]domain.Sale, int, error) {
	return r.listBy(ctx, "item_id", itemID, params)
}

func (r *SaleRepository) listBy(ctx context.Context, column string, id uuid.UUID, params pagination.Params) ([]domain.Sale, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM sales WHERE ` + column + ` = $1`
	if err := r.pool.QueryRow(ctx, countQuery, id).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, id, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.ItemID, &s.Amount, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sale row: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sale rows: %w", err)
	}

	return sales, total, nil
}

// UpdateAmount corrects the amount on an existing ledger row.
func (r *SaleRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amount float64) (*domain.Sale, error) {
	query := `
		UPDATE sales
		SET amount = $1
		WHERE id = $2
		RETURNING ` + saleColumns

	return scanSale(r.pool.QueryRow(ctx, query, amount, id))
}

// Delete removes a ledger row by ID.
func (r *SaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Sale not found")
	}

	return nil
}
