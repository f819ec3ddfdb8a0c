package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/domain"
)

func setupTestCache(t *testing.T) (*GoodsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewGoodsCache(client, 30*time.Second), mr
}

func sampleGoods() []domain.Good {
	return []domain.Good{
		{ID: uuid.New(), Name: "desk lamp", Price: 15},
		{ID: uuid.New(), Name: "mechanical keyboard", Price: 50},
	}
}

func TestGoodsCache_Miss(t *testing.T) {
	cache, _ := setupTestCache(t)

	goods, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, goods)
}

func TestGoodsCache_SetGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	goods := sampleGoods()

	require.NoError(t, cache.Set(context.Background(), goods))

	got, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, goods, got)
}

func TestGoodsCache_Expiry(t *testing.T) {
	cache, mr := setupTestCache(t)

	require.NoError(t, cache.Set(context.Background(), sampleGoods()))
	mr.FastForward(time.Minute)

	_, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGoodsCache_Invalidate(t *testing.T) {
	cache, _ := setupTestCache(t)

	require.NoError(t, cache.Set(context.Background(), sampleGoods()))
	require.NoError(t, cache.Invalidate(context.Background()))

	_, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
