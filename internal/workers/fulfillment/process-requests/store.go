// internal/workers/fulfillment/process-requests/store.go
package processrequests

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonaws "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/redis/go-redis/v9"
)

// DynamoRestaurantStore reads restaurant records from the restaurants table.
// Implements RestaurantStore.
type DynamoRestaurantStore struct {
	client *commonaws.DynamoDBClient
}

func NewDynamoRestaurantStore(client *commonaws.DynamoDBClient) *DynamoRestaurantStore {
	return &DynamoRestaurantStore{client: client}
}

func (s *DynamoRestaurantStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	item, err := s.client.GetItem(ctx, "id", id)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", id, err)
	}
	if item == nil {
		return nil, nil
	}

	var restaurant models.Restaurant
	if err := attributevalue.UnmarshalMap(item, &restaurant); err != nil {
		return nil, fmt.Errorf("unmarshal restaurant %s: %w", id, err)
	}

	return &restaurant, nil
}

// CachedRestaurantStore is a read-through cache in front of another store.
// Restaurant records are written once at load time, so a stale hit is
// equivalent to a fresh read.
type CachedRestaurantStore struct {
	inner  RestaurantStore
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRestaurantStore(inner RestaurantStore, rdb *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedRestaurantStore {
	return &CachedRestaurantStore{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log,
	}
}

func cacheKey(id string) string {
	return "restaurant:" + id
}

func (s *CachedRestaurantStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	cached, err := s.redis.Get(ctx, cacheKey(id))
	if err == nil {
		var restaurant models.Restaurant
		if jsonErr := json.Unmarshal([]byte(cached), &restaurant); jsonErr == nil {
			return &restaurant, nil
		}
		// Corrupt entry, fall through to the source of truth.
		_ = s.redis.Del(ctx, cacheKey(id))
	} else if err != redis.Nil {
		// Cache unavailability must not fail the lookup.
		s.logger.WithError(err).Warn("restaurant cache read failed", map[string]interface{}{
			"restaurantId": id,
		})
	}

	restaurant, err := s.inner.GetRestaurant(ctx, id)
	if err != nil || restaurant == nil {
		return restaurant, err
	}

	if data, jsonErr := json.Marshal(restaurant); jsonErr == nil {
		if setErr := s.redis.Set(ctx, cacheKey(id), string(data), s.ttl); setErr != nil {
			s.logger.WithError(setErr).Warn("restaurant cache write failed", map[string]interface{}{
				"restaurantId": id,
			})
		}
	}

	return restaurant, nil
}
