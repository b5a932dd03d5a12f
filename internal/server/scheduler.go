package server

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"
)

// Scheduler runs periodic background jobs: ratings refresh and index rebuild.
// Each job is guarded by a redis lock so only one replica fires per window.
type Scheduler struct {
	Rdb         *redis.Client
	Logger      *log.Logger
	RefreshCron string
	RebuildCron string

	Refresh func(ctx context.Context)
	Rebuild func(ctx context.Context) error

	Stop chan struct{}

	lastRefresh time.Time
	lastRebuild time.Time
}

func (s *Scheduler) Start() {
	ticker := time.NewTicker(time.Minute)
	go func() {
		for {
			select {
			case <-s.Stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick(time.Now())
			}
		}
	}()
}

func (s *Scheduler) tick(now time.Time) {
	ctx := context.Background()
	if s.Refresh != nil && isDue(s.RefreshCron, s.lastRefresh, now) {
		if s.acquire(ctx, "sched:lock:ratings") {
			s.lastRefresh = now
			s.Refresh(ctx)
		}
	}
	if s.Rebuild != nil && isDue(s.RebuildCron, s.lastRebuild, now) {
		if s.acquire(ctx, "sched:lock:rebuild") {
			s.lastRebuild = now
			if err := s.Rebuild(ctx); err != nil {
				s.Logger.Printf("index rebuild failed: %v", err)
			}
		}
	}
}

// acquire takes a short distributed lock so concurrent replicas do not
// duplicate a job. Without redis the scheduler runs unguarded.
func (s *Scheduler) acquire(ctx context.Context, key string) bool {
	if s.Rdb == nil {
		return true
	}
	ok, err := s.Rdb.SetNX(ctx, key, "1", 2*time.Minute).Result()
	if err != nil {
		s.Logger.Printf("redis lock %s: %v", key, err)
		return false
	}
	return ok
}

// isDue determines whether a job with cronSpec should run now given its last
// run time. Supports "@daily", "@hourly", and standard cron expressions.
func isDue(cronSpec string, last, now time.Time) bool {
	switch cronSpec {
	case "":
		return false
	case "@daily":
		return last.IsZero() || now.Sub(last) >= 24*time.Hour
	case "@hourly":
		return last.IsZero() || now.Sub(last) >= time.Hour
	default:
		expr, err := cronexpr.Parse(cronSpec)
		if err != nil {
			return last.IsZero() || now.Sub(last) >= 24*time.Hour
		}
		if last.IsZero() {
			return true
		}
		next := expr.Next(last)
		return !next.After(now)
	}
}
