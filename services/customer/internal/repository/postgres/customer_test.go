package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/database"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/domain"
)

var customerCols = []string{
	"id", "full_name", "username", "password_hash", "age", "address",
	"gender", "marital_status", "is_admin", "wallet_balance", "created_at", "updated_at",
}

func customerRow(c *domain.Customer) *pgxmock.Rows {
	return pgxmock.NewRows(customerCols).AddRow(
		c.ID, c.FullName, c.Username, c.PasswordHash, c.Age, c.Address,
		c.Gender, c.MaritalStatus, c.IsAdmin, c.WalletBalance, c.CreatedAt, c.UpdatedAt,
	)
}

func testCustomer() *domain.Customer {
	now := time.Now().UTC()
	return &domain.Customer{
		ID:            uuid.New(),
		FullName:      "Lina Haddad",
		Username:      "lina",
		PasswordHash:  "$2a$12$hash",
		Age:           31,
		Address:       "Beirut",
		Gender:        "female",
		MaritalStatus: "single",
		WalletBalance: 50,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCustomerRepository_Create(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)
	c := testCustomer()

	mock.ExpectExec("INSERT INTO customers").
		WithArgs(c.ID, c.FullName, c.Username, c.PasswordHash, c.Age, c.Address,
			c.Gender, c.MaritalStatus, c.IsAdmin, c.WalletBalance, c.CreatedAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Create_DuplicateUsername(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)
	c := testCustomer()

	mock.ExpectExec("INSERT INTO customers").
		WithArgs(c.ID, c.FullName, c.Username, c.PasswordHash, c.Age, c.Address,
			c.Gender, c.MaritalStatus, c.IsAdmin, c.WalletBalance, c.CreatedAt, c.UpdatedAt).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err = repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestCustomerRepository_GetByUsername(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)
	want := testCustomer()
	want.IsAdmin = true

	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs(want.Username).
		WillReturnRows(customerRow(want))

	got, err := repo.GetByUsername(context.Background(), want.Username)
	require.NoError(t, err)
	assert.Equal(t, want.Username, got.Username)
	assert.Equal(t, want.WalletBalance, got.WalletBalance)
	assert.True(t, got.IsAdmin)
}

func TestCustomerRepository_GetByUsername_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs("ghost").
		WillReturnError(errors.New("no rows in result set"))

	_, err = repo.GetByUsername(context.Background(), "ghost")
	require.Error(t, err)
}

func TestCustomerRepository_List(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)
	c := testCustomer()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs(20, 0).
		WillReturnRows(customerRow(c))

	customers, total, err := repo.List(context.Background(), pagination.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, customers, 1)
	assert.Equal(t, c.Username, customers[0].Username)
}

func TestCustomerRepository_Delete_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)

	mock.ExpectExec("DELETE FROM customers").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCustomerRepository_ChargeWallet(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)
	c := testCustomer()
	c.WalletBalance = 75

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wallet_balance FROM customers").
		WithArgs(c.Username).
		WillReturnRows(pgxmock.NewRows([]string{"wallet_balance"}).AddRow(50.0))
	mock.ExpectQuery("UPDATE customers SET wallet_balance").
		WithArgs(25.0, c.Username).
		WillReturnRows(customerRow(c))
	mock.ExpectCommit()

	got, err := repo.ChargeWallet(context.Background(), c.Username, 25)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.WalletBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_DeductWallet_InsufficientFunds(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wallet_balance FROM customers").
		WithArgs("lina").
		WillReturnRows(pgxmock.NewRows([]string{"wallet_balance"}).AddRow(10.0))

	_, err = repo.DeductWallet(context.Background(), "lina", 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "Insufficient funds")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_DeductWallet_CustomerNotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCustomerRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wallet_balance FROM customers").
		WithArgs("ghost").
		WillReturnError(errors.New("no rows in result set"))

	_, err = repo.DeductWallet(context.Background(), "ghost", 5)
	require.Error(t, err)
}
