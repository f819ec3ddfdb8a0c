package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/database"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/domain"
)

var saleCols = []string{"id", "customer_id", "item_id", "amount", "created_at"}

func saleRow(s *domain.Sale) *pgxmock.Rows {
	return pgxmock.NewRows(saleCols).AddRow(s.ID, s.CustomerID, s.ItemID, s.Amount, s.CreatedAt)
}

func testSale() *domain.Sale {
	return &domain.Sale{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		ItemID:     uuid.New(),
		Amount:     50,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestSaleRepository_ProcessSale(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	itemID := uuid.New()
	customerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, price, stock_count FROM items").
		WithArgs(itemID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "price", "stock_count"}).
			AddRow("mechanical keyboard", 50.0, 10))
	mock.ExpectQuery("SELECT id, wallet_balance FROM customers").
		WithArgs("ibrahim").
		WillReturnRows(pgxmock.NewRows([]string{"id", "wallet_balance"}).
			AddRow(customerID, 100.0))
	mock.ExpectExec("UPDATE items").
		WithArgs(itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE customers").
		WithArgs(50.0, customerID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO sales").
		WithArgs(pgxmock.AnyArg(), customerID, itemID, 50.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	result, err := repo.ProcessSale(context.Background(), "ibrahim", itemID)
	require.NoError(t, err)
	assert.Equal(t, "ibrahim", result.CustomerUsername)
	assert.Equal(t, "mechanical keyboard", result.ItemName)
	assert.Equal(t, 50.0, result.Amount)
	assert.NotEqual(t, uuid.Nil, result.SaleID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_ProcessSale_ItemNotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, price, stock_count FROM items").
		WithArgs(itemID).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.ProcessSale(context.Background(), "ibrahim", itemID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "Item not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

// The stock check runs before the customer lookup: an out-of-stock item
// reports out of stock even for an unknown customer, and nothing is
// written.
func TestSaleRepository_ProcessSale_OutOfStock(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, price, stock_count FROM items").
		WithArgs(itemID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "price", "stock_count"}).
			AddRow("mechanical keyboard", 50.0, 0))

	_, err = repo.ProcessSale(context.Background(), "nosuchuser", itemID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.Contains(t, err.Error(), "Item is out of stock")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_ProcessSale_CustomerNotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, price, stock_count FROM items").
		WithArgs(itemID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "price", "stock_count"}).
			AddRow("mechanical keyboard", 50.0, 10))
	mock.ExpectQuery("SELECT id, wallet_balance FROM customers").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.ProcessSale(context.Background(), "ghost", itemID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "Customer not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

// A customer with 10 in the wallet cannot buy a 50 item; no stock or
// wallet update and no ledger row happen on the failed attempt.
func TestSaleRepository_ProcessSale_InsufficientFunds(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	itemID := uuid.New()
	customerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, price, stock_count FROM items").
		WithArgs(itemID).
		WillReturnRows(pgxmock.NewRows([]string{"name", "price", "stock_count"}).
			AddRow("mechanical keyboard", 50.0, 10))
	mock.ExpectQuery("SELECT id, wallet_balance FROM customers").
		WithArgs("ibrahim").
		WillReturnRows(pgxmock.NewRows([]string{"id", "wallet_balance"}).
			AddRow(customerID, 10.0))

	_, err = repo.ProcessSale(context.Background(), "ibrahim", itemID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "Insufficient funds")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_Create(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	s := testSale()

	mock.ExpectExec("INSERT INTO sales").
		WithArgs(s.ID, s.CustomerID, s.ItemID, s.Amount, s.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), s))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_ListByCustomer(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	s := testSale()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(s.CustomerID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM sales").
		WithArgs(s.CustomerID, 20, 0).
		WillReturnRows(saleRow(s))

	sales, total, err := repo.ListByCustomer(context.Background(), s.CustomerID, pagination.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, sales, 1)
	assert.Equal(t, s.ID, sales[0].ID)
}

func TestSaleRepository_UpdateAmount(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	s := testSale()
	s.Amount = 42.5

	mock.ExpectQuery("UPDATE sales").
		WithArgs(42.5, s.ID).
		WillReturnRows(saleRow(s))

	got, err := repo.UpdateAmount(context.Background(), s.ID, 42.5)
	require.NoError(t, err)
	assert.Equal(t, 42.5, got.Amount)
}

func TestSaleRepository_Delete_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSaleRepository(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM sales").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
