package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/database"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/domain"
)

// CustomerRepository implements repository.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	pool database.DBTX
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool database.DBTX) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = `id, full_name, username, password_hash, age, address, gender, marital_status, is_admin, wallet_balance, created_at, updated_at`

// Create inserts a new customer into the database.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (id, full_name, username, password_hash, age, address, gender, marital_status, is_admin, wallet_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.FullName,
		c.Username,
		c.PasswordHash,
		c.Age,
		c.Address,
		c.Gender,
		c.MaritalStatus,
		c.IsAdmin,
		c.WalletBalance,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("customer", "username", c.Username)
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

// GetByUsername retrieves a customer by their username.
func (r *CustomerRepository) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE username = $1`

	var c domain.Customer
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&c.ID,
		&c.FullName,
		&c.Username,
		&c.PasswordHash,
		&c.Age,
		&c.Address,
		&c.Gender,
		&c.MaritalStatus,
		&c.IsAdmin,
		&c.WalletBalance,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Customer not found")
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	return &c, nil
}

// List returns a page of customers ordered by username.
func (r *CustomerRepository) List(ctx context.Context, params pagination.Params) ([]domain.Customer, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := `
		SELECT ` + customerColumns + `
		FROM customers
		ORDER BY username
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(
			&c.ID,
			&c.FullName,
			&c.Username,
			&c.PasswordHash,
			&c.Age,
			&c.Address,
			&c.Gender,
			&c.MaritalStatus,
			&c.IsAdmin,
			&c.WalletBalance,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate customer rows: %w", err)
	}

	return customers, total, nil
}

// Update modifies an existing customer.
func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE customers
		SET full_name = $1, password_hash = $2, age = $3, address = $4,
		    gender = $5, marital_status = $6, updated_at = $7
		WHERE username = $8`

	ct, err := r.pool.Exec(ctx, query,
		c.FullName,
		c.PasswordHash,
		c.Age,
		c.Address,
		c.Gender,
		c.MaritalStatus,
		c.UpdatedAt,
		c.Username,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Customer not found")
	}

	return nil
}

// Delete removes a customer by username.
func (r *CustomerRepository) Delete(ctx context.Context, username string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Customer not found")
	}

	return nil
}

// ChargeWallet atomically adds amount to the wallet balance. The row is
// locked for the duration of the transaction so concurrent wallet
// operations serialize.
func (r *CustomerRepository) ChargeWallet(ctx context.Context, username string, amount float64) (*domain.Customer, error) {
	return r.adjustWallet(ctx, username, amount, false)
}

// DeductWallet atomically subtracts amount from the wallet balance,
// failing when funds are insufficient.
func (r *CustomerRepository) DeductWallet(ctx context.Context, username string, amount float64) (*domain.Customer, error) {
	return r.adjustWallet(ctx, username, -amount, true)
}

func (r *CustomerRepository) adjustWallet(ctx context.Context, username string, delta float64, checkFunds bool) (*domain.Customer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin wallet transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance float64
	lockQuery := `
		SELECT wallet_balance
		FROM customers
		WHERE username = $1
		FOR UPDATE`

	if err := tx.QueryRow(ctx, lockQuery, username).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Customer not found")
		}
		return nil, fmt.Errorf("lock customer row: %w", err)
	}

	if checkFunds && balance+delta < 0 {
		return nil, apperrors.InsufficientFunds("Insufficient funds")
	}

	updateQuery := `
		UPDATE customers
		SET wallet_balance = wallet_balance + $1, updated_at = NOW()
		WHERE username = $2
		RETURNING ` + customerColumns

	var c domain.Customer
	err = tx.QueryRow(ctx, updateQuery, delta, username).Scan(
		&c.ID,
		&c.FullName,
		&c.Username,
		&c.PasswordHash,
		&c.Age,
		&c.Address,
		&c.Gender,
		&c.MaritalStatus,
		&c.IsAdmin,
		&c.WalletBalance,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update wallet balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit wallet transaction: %w", err)
	}

	return &c, nil
}

// isUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
