// Package cache memoizes market calculation results outside the pure core.
// The core itself never caches; callers key results by a digest of the exact
// product inputs so a changed input always recomputes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"launchfast/internal/engine"
)

// MarketCache stores market calculation results under input-digest keys.
type MarketCache interface {
	Get(ctx context.Context, key string) (*engine.Result[engine.Market], bool)
	Set(ctx context.Context, key string, res engine.Result[engine.Market])
}

// Key digests a product list into a stable cache key. Serialization order
// follows the input slice, so reordered products rank as a different market.
func Key(products []*engine.Product) string {
	data, err := json.Marshal(products)
	if err != nil {
		// Products are plain data; marshal cannot realistically fail. Fall
		// back to an uncacheable key rather than colliding.
		return ""
	}
	sum := sha256.Sum256(data)
	return "market:" + hex.EncodeToString(sum[:])
}

// memoryEntry pairs a cached result with its expiry.
type memoryEntry struct {
	res     engine.Result[engine.Market]
	expires time.Time
}
