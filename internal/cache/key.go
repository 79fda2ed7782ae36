package cache

import (
	"fmt"
	"strings"

	"github.com/echohtp/poolboyz/internal/model"
)

// Query kinds, used as the leading segment of cache keys and as the
// query_type column of durable snapshots.
const (
	QueryPool   = "pool"
	QueryOrders = "orders"
)

// Key identifies one cached analysis. Keys are a deterministic
// function of the normalized query parameters.
type Key struct {
	Type string
	ID   string
}

func (k Key) String() string {
	return k.Type + ":" + k.ID
}

// PoolKey builds the cache key for a pool liquidity query.
func PoolKey(address string) (Key, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Key{}, fmt.Errorf("%w: pool address is required", model.ErrInvalidQuery)
	}
	return Key{Type: QueryPool, ID: address}, nil
}

// OrdersKey builds the cache key for an order query. The mint segment
// is "-" when the query is not narrowed to one input mint.
func OrdersKey(maker, mint string) (Key, error) {
	maker = strings.TrimSpace(maker)
	mint = strings.TrimSpace(mint)
	if maker == "" {
		return Key{}, fmt.Errorf("%w: maker is required", model.ErrInvalidQuery)
	}
	if mint == "" {
		mint = "-"
	}
	return Key{Type: QueryOrders, ID: maker + ":" + mint}, nil
}
