package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// ResultCache caches completed analysis results keyed by audit ID.  Cache
// misses under concurrent load for the same audit are collapsed with
// singleflight so the pipeline runs at most once per audit at a time.
//
// The cache is strictly an accelerator: every method degrades to a no-op
// style behaviour on Redis errors, logging a warning and letting the caller
// recompute.
type ResultCache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
	log    logging.Logger
	group  singleflight.Group
}

// NewResultCache constructs a ResultCache.  A nil client yields a cache that
// always misses, which keeps call sites free of nil checks.
func NewResultCache(rdb *goredis.Client, prefix string, ttl time.Duration, log logging.Logger) *ResultCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ResultCache{rdb: rdb, ttl: ttl, prefix: prefix, log: log}
}

func (c *ResultCache) key(auditID common.ID) string {
	return c.prefix + "analysis:" + string(auditID)
}

// Get returns the cached result for the audit, or (nil, false) on a miss or
// any cache error.
func (c *ResultCache) Get(ctx context.Context, auditID common.ID) (*audittypes.AnalysisResult, bool) {
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key(auditID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("cache read failed", logging.String("audit_id", string(auditID)), logging.Err(err))
		}
		return nil, false
	}

	res := &audittypes.AnalysisResult{}
	if err := json.Unmarshal(raw, res); err != nil {
		c.log.Warn("cache entry corrupt, dropping", logging.String("audit_id", string(auditID)), logging.Err(err))
		_ = c.rdb.Del(ctx, c.key(auditID)).Err()
		return nil, false
	}
	return res, true
}

// Set stores the result under the configured TTL.  Errors are logged, never
// returned: a failed cache write must not fail an analysis.
func (c *ResultCache) Set(ctx context.Context, res *audittypes.AnalysisResult) {
	if c.rdb == nil || res == nil || res.AuditID == "" {
		return
	}

	raw, err := json.Marshal(res)
	if err != nil {
		c.log.Warn("cache marshal failed", logging.Err(err))
		return
	}
	if err := c.rdb.Set(ctx, c.key(res.AuditID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", logging.String("audit_id", string(res.AuditID)), logging.Err(err))
	}
}

// Invalidate removes the cached result for an audit, if present.
func (c *ResultCache) Invalidate(ctx context.Context, auditID common.ID) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key(auditID)).Err(); err != nil {
		c.log.Warn("cache invalidation failed", logging.String("audit_id", string(auditID)), logging.Err(err))
	}
}

// GetOrCompute returns the cached result or runs compute exactly once for
// concurrent callers of the same audit, caching its output on success.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	auditID common.ID,
	compute func(context.Context) (*audittypes.AnalysisResult, error),
) (*audittypes.AnalysisResult, error) {
	if res, ok := c.Get(ctx, auditID); ok {
		return res, nil
	}

	v, err, _ := c.group.Do(string(auditID), func() (interface{}, error) {
		// Re-check under the flight lock: another caller may have populated
		// the cache while this one queued.
		if res, ok := c.Get(ctx, auditID); ok {
			return res, nil
		}
		res, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(ctx, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	res, ok := v.(*audittypes.AnalysisResult)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeCacheError, "unexpected cached value type")
	}
	return res, nil
}
