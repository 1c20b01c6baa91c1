package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// CartStore clears shopping carts kept by the storefront under cart:<customerID>.
// Without a client there are no server-side carts and clearing is a no-op.
type CartStore struct {
	client *goredis.Client
}

func NewCartStore(client *goredis.Client) *CartStore {
	return &CartStore{client: client}
}

// CartKey is the Redis key of a customer's cart.
func CartKey(customerID string) string {
	return cartKeyPrefix + customerID
}

// ClearCart deletes the cart. Clearing an empty cart succeeds.
func (s *CartStore) ClearCart(ctx context.Context, customerID string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, CartKey(customerID)).Err()
}
