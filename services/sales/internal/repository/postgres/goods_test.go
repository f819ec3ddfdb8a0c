package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/database"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
)

func TestGoodsRepository_ListGoods(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodsRepository(mock)

	mock.ExpectQuery("SELECT id, name, price FROM items").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price"}).
			AddRow(uuid.New(), "desk lamp", 15.0).
			AddRow(uuid.New(), "mechanical keyboard", 50.0))

	goods, err := repo.ListGoods(context.Background())
	require.NoError(t, err)
	require.Len(t, goods, 2)
	assert.Equal(t, "desk lamp", goods[0].Name)
	assert.Equal(t, 50.0, goods[1].Price)
}

func TestGoodsRepository_GetGood_NotFound(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodsRepository(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, category, price, description, stock_count FROM items").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetGood(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "Item not found")
}
