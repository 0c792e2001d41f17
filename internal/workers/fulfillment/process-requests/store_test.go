// internal/workers/fulfillment/process-requests/store_test.go
package processrequests

import (
	"context"
	"testing"
	"time"

	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	restaurants map[string]*models.Restaurant
	calls       int
}

func (c *countingStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	c.calls++
	return c.restaurants[id], nil
}

func newTestRedis(t *testing.T) *database.RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)
	return &database.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
}

func TestCachedStoreReadThrough(t *testing.T) {
	inner := &countingStore{restaurants: map[string]*models.Restaurant{
		"r1": {ID: "r1", Name: "Trattoria", Address: "1 Main St"},
	}}
	store := NewCachedRestaurantStore(inner, newTestRedis(t), time.Hour, logger.NewNoOpLogger())

	first, err := store.GetRestaurant(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Trattoria", first.Name)
	assert.Equal(t, 1, inner.calls)

	second, err := store.GetRestaurant(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "Trattoria", second.Name)
	assert.Equal(t, 1, inner.calls, "second read should come from the cache")
}

func TestCachedStoreMissIsNotCached(t *testing.T) {
	inner := &countingStore{restaurants: map[string]*models.Restaurant{}}
	store := NewCachedRestaurantStore(inner, newTestRedis(t), time.Hour, logger.NewNoOpLogger())

	restaurant, err := store.GetRestaurant(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, restaurant)
	assert.Equal(t, 1, inner.calls)

	_, err = store.GetRestaurant(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "misses always go to the source of truth")
}

func TestCachedStoreRecoversFromCorruptEntry(t *testing.T) {
	inner := &countingStore{restaurants: map[string]*models.Restaurant{
		"r1": {ID: "r1", Name: "Trattoria", Address: "1 Main St"},
	}}
	rdb := newTestRedis(t)
	store := NewCachedRestaurantStore(inner, rdb, time.Hour, logger.NewNoOpLogger())

	require.NoError(t, rdb.Set(context.Background(), "restaurant:r1", "not-json", time.Hour))

	restaurant, err := store.GetRestaurant(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, restaurant)
	assert.Equal(t, "Trattoria", restaurant.Name)
	assert.Equal(t, 1, inner.calls)
}
