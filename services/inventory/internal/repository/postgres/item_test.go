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
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/domain"
)

var itemCols = []string{
	"id", "name", "category", "price", "description", "stock_count", "created_at", "updated_at",
}

func itemRow(it *domain.Item) *pgxmock.Rows {
	return pgxmock.NewRows(itemCols).AddRow(
		it.ID, it.Name, it.Category, it.Price, it.Description, it.StockCount, it.CreatedAt, it.UpdatedAt,
	)
}

func testItem() *domain.Item {
	now := time.Now().UTC()
	return &domain.Item{
		ID:          uuid.New(),
		Name:        "mechanical keyboard",
		Category:    "electronics",
		Price:       50,
		Description: "tenkeyless",
		StockCount:  10,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestItemRepository_Create(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	it := testItem()

	mock.ExpectExec("INSERT INTO items").
		WithArgs(it.ID, it.Name, it.Category, it.Price, it.Description, it.StockCount, it.CreatedAt, it.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), it))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_GetByID_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM items").
		WithArgs(id).
		WillReturnError(errors.New("no rows in result set"))

	_, err = repo.GetByID(context.Background(), id)
	require.Error(t, err)
}

func TestItemRepository_List(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	it := testItem()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM items").
		WithArgs(20, 0).
		WillReturnRows(itemRow(it))

	items, total, err := repo.List(context.Background(), pagination.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, it.Name, items[0].Name)
}

func TestItemRepository_DeleteAll(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)

	mock.ExpectExec("DELETE FROM items").
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestItemRepository_DeductOne(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	it := testItem()
	it.StockCount = 9

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT stock_count FROM items").
		WithArgs(it.ID).
		WillReturnRows(pgxmock.NewRows([]string{"stock_count"}).AddRow(10))
	mock.ExpectQuery("UPDATE items").
		WithArgs(it.ID).
		WillReturnRows(itemRow(it))
	mock.ExpectExec("INSERT INTO stock_movements").
		WithArgs(pgxmock.AnyArg(), it.ID, -1, domain.MovementReasonAdjustment, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	got, err := repo.DeductOne(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.StockCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_DeductOne_NoStock(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT stock_count FROM items").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"stock_count"}).AddRow(0))

	_, err = repo.DeductOne(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.Contains(t, err.Error(), "No stock available to deduct")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_RecordMovement(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	ref := "sale-123"
	m := &domain.StockMovement{
		ID:             uuid.New(),
		ItemID:         uuid.New(),
		QuantityChange: -1,
		Reason:         domain.MovementReasonOrder,
		ReferenceID:    &ref,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO stock_movements").
		WithArgs(m.ID, m.ItemID, m.QuantityChange, m.Reason, m.ReferenceID, m.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.RecordMovement(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}
