package cache

import (
	"context"
	"encoding/json"
	"time"
)

const (
	ProductListKey = "products:list"
	ProductListTTL = 10 * time.Minute
)

// GetJSON decodes key into dst. A miss, a disabled store or an undecodable
// value all return false; callers fall back to the database.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) bool {
	if !s.Enabled() {
		return false
	}
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !isMiss(err) {
			s.log.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.WarnContext(ctx, "cache value undecodable", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON stores v under key. Failures are logged and otherwise ignored.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.log.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		s.log.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops keys. Errors are logged only; a stale entry expires
// with its TTL.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if !s.Enabled() || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.WarnContext(ctx, "cache invalidate failed", "keys", keys, "error", err)
	}
}
