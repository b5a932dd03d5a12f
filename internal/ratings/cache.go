package ratings

import (
	"context"
	"log"
	"sync"
	"time"
)

// Options configure the cache's freshness windows and data source.
type Options struct {
	Enabled   bool
	TTL       time.Duration // validity window after a successful fetch
	FailRetry time.Duration // backoff window after a failed fetch
	Timeout   time.Duration // per-fetch deadline
}

// Health is the operator-facing state of the cache.
type Health struct {
	OK          bool   `json:"ok"`
	Count       int    `json:"count"`
	LastRefresh string `json:"last_refresh,omitempty"`
	AgeSeconds  *int   `json:"age_seconds"`
	Source      string `json:"source"`
	Enabled     bool   `json:"enabled"`
}

// Cache holds the live popularity snapshot. One exclusive lock covers both
// the skip-or-fetch decision and the fetch itself, so a stale window never
// produces more than one outbound call and the TTL/backoff check is
// race-free.
type Cache struct {
	opts     Options
	fetcher  Fetcher
	rendered Fetcher // optional fallback for JS-rendered pages
	logger   *log.Logger
	now      func() time.Time

	mu        sync.Mutex
	scores    map[string]float64
	fetchedAt time.Time
	ok        bool
}

// NewCache builds a ratings cache. rendered may be nil.
func NewCache(opts Options, fetcher Fetcher, rendered Fetcher, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(log.Writer(), "[RATINGS] ", log.LstdFlags)
	}
	return &Cache{
		opts:     opts,
		fetcher:  fetcher,
		rendered: rendered,
		logger:   logger,
		now:      time.Now,
		scores:   map[string]float64{},
	}
}

// Fetch refreshes the snapshot unless the freshness rule says to skip, and
// returns a copy of the cached mapping either way. Failures are non-fatal:
// the cache is cleared, the failure timestamp recorded, and the next attempt
// deferred by the backoff window.
func (c *Cache) Fetch(ctx context.Context, force bool) map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.skipLocked(now, force) {
		return c.copyLocked()
	}
	if !c.opts.Enabled {
		c.fetchedAt, c.ok = now, false
		return c.copyLocked()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	c.logger.Printf("fetching live ratings")
	html, err := c.fetcher.Fetch(fetchCtx)
	var scores map[string]float64
	if err == nil {
		scores = ParseScores(html)
	}
	if (err != nil || len(scores) == 0) && c.rendered != nil {
		if rhtml, rerr := c.rendered.Fetch(ctx); rerr == nil {
			scores = ParseScores(rhtml)
		} else {
			c.logger.Printf("rendered fetch failed: %v", rerr)
		}
	}

	c.fetchedAt = now
	if len(scores) > 0 {
		c.scores, c.ok = scores, true
		c.logger.Printf("loaded %d ratings", len(scores))
	} else {
		c.scores, c.ok = map[string]float64{}, false
		if err != nil {
			c.logger.Printf("ratings fetch failed, falling back to priors: %v", err)
		} else {
			c.logger.Printf("ratings page yielded no scores, falling back to priors")
		}
	}
	return c.copyLocked()
}

// skipLocked decides whether to reuse the cache. Called with the lock held.
func (c *Cache) skipLocked(now time.Time, force bool) bool {
	if force {
		return false
	}
	if !c.opts.Enabled {
		return true
	}
	if c.fetchedAt.IsZero() {
		return false
	}
	limit := c.opts.TTL
	if !c.ok {
		limit = c.opts.FailRetry
	}
	return now.Sub(c.fetchedAt) < limit
}

func (c *Cache) copyLocked() map[string]float64 {
	out := make(map[string]float64, len(c.scores))
	for k, v := range c.scores {
		out[k] = v
	}
	return out
}

// Ensure triggers the refresh-if-stale check; inside the freshness window it
// is a cheap lock-check-unlock.
func (c *Cache) Ensure(ctx context.Context) {
	_ = c.Fetch(ctx, false)
}

// Rating01 returns the cached normalized score for the tool's canonical
// name, or 0 when absent. Never fails.
func (c *Cache) Rating01(name string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scores[CanonicalName(name)]
}

// Refresh forces a fetch and reports whether it succeeded and how many
// entries are cached. Exposed as an operator action.
func (c *Cache) Refresh(ctx context.Context) (bool, int) {
	data := c.Fetch(ctx, true)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ok, len(data)
}

// Health reports cache age, success flag and source label for the operator
// endpoint.
func (c *Cache) Health() Health {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := Health{
		OK:      c.ok,
		Count:   len(c.scores),
		Source:  "fallback",
		Enabled: c.opts.Enabled,
	}
	if c.ok && len(c.scores) > 0 {
		h.Source = "live"
	}
	if !c.fetchedAt.IsZero() {
		h.LastRefresh = c.fetchedAt.UTC().Format(time.RFC3339)
		age := int(c.now().Sub(c.fetchedAt).Seconds())
		h.AgeSeconds = &age
	}
	return h
}
