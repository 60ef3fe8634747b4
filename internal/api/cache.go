package api

import (
	"encoding/json"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/fairline/internal/parlay"
)

// ResultCache memoizes evaluation reports for identical requests. A zero TTL
// disables it.
type ResultCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewResultCache creates a result cache with the given TTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	rc := &ResultCache{ttl: ttl}
	if ttl > 0 {
		rc.cache = cache.New(ttl, ttl*2)
	}
	return rc
}

// Enabled reports whether results are cached.
func (rc *ResultCache) Enabled() bool {
	return rc.cache != nil
}

// Get retrieves a cached report.
func (rc *ResultCache) Get(key string) (*parlay.Report, bool) {
	if !rc.Enabled() {
		return nil, false
	}
	if result, found := rc.cache.Get(key); found {
		if report, ok := result.(*parlay.Report); ok {
			rc.hitCount.Add(1)
			return report, true
		}
	}
	rc.missCount.Add(1)
	return nil, false
}

// Set stores a report.
func (rc *ResultCache) Set(key string, report *parlay.Report) {
	if !rc.Enabled() {
		return
	}
	rc.cache.Set(key, report, rc.ttl)
}

// Stats returns cache hit and miss counts.
func (rc *ResultCache) Stats() (hits, misses uint64) {
	return rc.hitCount.Load(), rc.missCount.Load()
}

// cacheKey identifies a request by its canonical JSON encoding.
func cacheKey(req parlay.BetRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
