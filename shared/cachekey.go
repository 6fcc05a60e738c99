package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/rs/zerolog/log"

	"salones/shared/cache"
	"salones/shared/dto"
)

// BuildCacheKey composes a cache key from an entity prefix and one or more
// identifying parts, joined by ":".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// BuildCacheKeyWithQuery composes a cache key from an entity prefix and a
// digest of the query parameters and filters, so distinct listings cache
// under distinct keys.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	hasher := fnv.New64a()

	if raw, err := json.Marshal(params); err == nil {
		_, _ = hasher.Write(raw)
	}

	if raw, err := json.Marshal(filter); err == nil {
		_, _ = hasher.Write(raw)
	}

	return fmt.Sprintf("%s:%x", prefix, hasher.Sum64())
}

// InvalidateCaches clears every cache entry under the given prefix.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, prefix+"*"); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
	}
}
