// Package cache holds the Redis read-through cache for recipe views.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "apitizers:recipe:"
	listKey   = keyPrefix + "all"
)

// RecipeCache stores serialised recipe views keyed by recipe id.
type RecipeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecipeCache(client *redis.Client, ttl time.Duration) *RecipeCache {
	return &RecipeCache{client: client, ttl: ttl}
}

func recipeKey(id uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// GetRecipe returns the cached payload for id. A miss is (nil, false, nil).
func (c *RecipeCache) GetRecipe(ctx context.Context, id uint) ([]byte, bool, error) {
	return c.get(ctx, recipeKey(id))
}

func (c *RecipeCache) SetRecipe(ctx context.Context, id uint, payload []byte) error {
	return c.client.Set(ctx, recipeKey(id), payload, c.ttl).Err()
}

// GetList returns the cached payload of the full recipe listing.
func (c *RecipeCache) GetList(ctx context.Context) ([]byte, bool, error) {
	return c.get(ctx, listKey)
}

func (c *RecipeCache) SetList(ctx context.Context, payload []byte) error {
	return c.client.Set(ctx, listKey, payload, c.ttl).Err()
}

// Invalidate drops the entry for id together with the listing.
func (c *RecipeCache) Invalidate(ctx context.Context, id uint) error {
	return c.client.Del(ctx, recipeKey(id), listKey).Err()
}

// InvalidateList drops only the listing.
func (c *RecipeCache) InvalidateList(ctx context.Context) error {
	return c.client.Del(ctx, listKey).Err()
}

func (c *RecipeCache) get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}
