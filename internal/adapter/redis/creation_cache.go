package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	creationCacheKeyPrefix = "creation:"
)

type creationCache struct {
	client *redis.Client
}

func NewCreationCache(client *redis.Client) repository.CreationCache {
	return &creationCache{
		client: client,
	}
}

func (c *creationCache) getCreationKey(creationID string) string {
	return creationCacheKeyPrefix + creationID
}

func (c *creationCache) Get(ctx context.Context, creationID string) (*entity.Creation, error) {
	key := c.getCreationKey(creationID)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get creation %s from redis: %w", creationID, err)
	}

	var creation entity.Creation
	err = json.Unmarshal([]byte(val), &creation)
	if err != nil {
		// A stale or corrupt entry must not poison the read path.
		_ = c.Delete(ctx, creationID)
		return nil, fmt.Errorf("failed to unmarshal cached creation %s: %w", creationID, err)
	}
	return &creation, nil
}

func (c *creationCache) Set(ctx context.Context, creation *entity.Creation, ttl time.Duration) error {
	if creation == nil || creation.ID == "" {
		return errors.New("cannot cache nil creation or creation with empty ID")
	}
	key := c.getCreationKey(creation.ID)

	data, err := json.Marshal(creation)
	if err != nil {
		return fmt.Errorf("failed to marshal creation %s: %w", creation.ID, err)
	}

	err = c.client.Set(ctx, key, data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set creation %s to redis: %w", creation.ID, err)
	}
	return nil
}

func (c *creationCache) Delete(ctx context.Context, creationID string) error {
	key := c.getCreationKey(creationID)
	err := c.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete creation %s from redis: %w", creationID, err)
	}
	return nil
}
