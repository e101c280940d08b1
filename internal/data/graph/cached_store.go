package graph

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/observability"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

// CachedStore is a read-through Redis cache in front of another Store for the catalogue reads
// that dominate traffic. Redis failures are logged and the inner store answers.
type CachedStore struct {
	Store
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

func NewCachedStore(inner Store, rdb redis.UniversalClient, ttl time.Duration, prefix string, log *logger.Logger) *CachedStore {
	if log == nil {
		log = logger.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{Store: inner, rdb: rdb, ttl: ttl, prefix: prefix, log: log.With("store", "CachedStore")}
}

// Degraded forwards to the inner store when it tracks degradation.
func (c *CachedStore) Degraded() bool {
	if d, ok := c.Store.(interface{ Degraded() bool }); ok {
		return d.Degraded()
	}
	return false
}

func (c *CachedStore) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	return cached(c, ctx, "ListCourses", c.prefix+"courses", func() ([]catalog.Course, error) {
		return c.Store.ListCourses(ctx)
	})
}

func (c *CachedStore) GetCourse(ctx context.Context, id int64) (*catalog.CourseDetail, error) {
	return cached(c, ctx, "GetCourse", c.prefix+"course:"+strconv.FormatInt(id, 10), func() (*catalog.CourseDetail, error) {
		return c.Store.GetCourse(ctx, id)
	})
}

func (c *CachedStore) Stats(ctx context.Context) (catalog.Stats, error) {
	return cached(c, ctx, "Stats", c.prefix+"stats", func() (catalog.Stats, error) {
		return c.Store.Stats(ctx)
	})
}

func cached[T any](c *CachedStore, ctx context.Context, op, key string, load func() (T, error)) (T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if uerr := json.Unmarshal(raw, &v); uerr == nil {
			observability.CacheResults.WithLabelValues(op, "hit").Inc()
			return v, nil
		}
		c.log.Warn("catalogue cache entry unreadable, reloading", "key", key)
		observability.CacheResults.WithLabelValues(op, "error").Inc()
	case errors.Is(err, redis.Nil):
		observability.CacheResults.WithLabelValues(op, "miss").Inc()
	default:
		c.log.Warn("catalogue cache read failed", "key", key, "error", err)
		observability.CacheResults.WithLabelValues(op, "error").Inc()
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	// Catalogue answers served while degraded are not cached so recovery shows up immediately.
	if c.Degraded() {
		return v, nil
	}
	if buf, merr := json.Marshal(v); merr == nil {
		if serr := c.rdb.Set(ctx, key, buf, c.ttl).Err(); serr != nil {
			c.log.Warn("catalogue cache write failed", "key", key, "error", serr)
		}
	}
	return v, nil
}
