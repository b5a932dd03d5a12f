package ratings

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"
)

const scoredPage = `<script id="__NEXT_DATA__" type="application/json">{"models":[{"name":"GPT-4o","score":87},{"name":"Claude 3.5","score":84}]}</script>`

type countingFetcher struct {
	html  string
	err   error
	calls int
}

func (f *countingFetcher) Fetch(ctx context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

func testOptions() Options {
	return Options{Enabled: true, TTL: 6 * time.Hour, FailRetry: 10 * time.Minute, Timeout: 5 * time.Second}
}

func newTestCache(opts Options, fetcher, rendered Fetcher) (*Cache, *time.Time) {
	c := NewCache(opts, fetcher, rendered, log.New(io.Discard, "", 0))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestFetchCachesWithinTTL(t *testing.T) {
	f := &countingFetcher{html: scoredPage}
	c, now := newTestCache(testOptions(), f, nil)

	c.Ensure(context.Background())
	if f.calls != 1 {
		t.Fatalf("calls = %d, want 1", f.calls)
	}
	if got := c.Rating01("ChatGPT"); got != 0.87 {
		t.Fatalf("Rating01(ChatGPT) = %f, want 0.87", got)
	}

	*now = now.Add(1 * time.Hour)
	c.Ensure(context.Background())
	if f.calls != 1 {
		t.Fatalf("refetched inside TTL: calls = %d", f.calls)
	}

	*now = now.Add(6 * time.Hour)
	c.Ensure(context.Background())
	if f.calls != 2 {
		t.Fatalf("no refetch after TTL expiry: calls = %d", f.calls)
	}
}

func TestFetchFailureBackoffAndClear(t *testing.T) {
	f := &countingFetcher{err: errors.New("503")}
	c, now := newTestCache(testOptions(), f, nil)

	got := c.Fetch(context.Background(), false)
	if len(got) != 0 {
		t.Fatalf("failed fetch left scores behind: %v", got)
	}
	if f.calls != 1 {
		t.Fatalf("calls = %d, want 1", f.calls)
	}

	// inside the backoff window no new attempt is made
	*now = now.Add(5 * time.Minute)
	c.Ensure(context.Background())
	if f.calls != 1 {
		t.Fatalf("retried inside backoff: calls = %d", f.calls)
	}

	// after the backoff window the next attempt goes out
	*now = now.Add(6 * time.Minute)
	f.err = nil
	f.html = scoredPage
	c.Ensure(context.Background())
	if f.calls != 2 {
		t.Fatalf("no retry after backoff: calls = %d", f.calls)
	}
	if got := c.Rating01("Claude"); got != 0.84 {
		t.Fatalf("Rating01(Claude) = %f, want 0.84", got)
	}
}

func TestFetchFailureClearsPreviousScores(t *testing.T) {
	f := &countingFetcher{html: scoredPage}
	c, now := newTestCache(testOptions(), f, nil)
	c.Ensure(context.Background())
	if c.Rating01("ChatGPT") == 0 {
		t.Fatal("seed fetch did not populate the cache")
	}

	f.err = errors.New("down")
	*now = now.Add(7 * time.Hour)
	c.Ensure(context.Background())
	if got := c.Rating01("ChatGPT"); got != 0 {
		t.Fatalf("stale score survived a failed refresh: %f", got)
	}
}

func TestFetchDisabledSkips(t *testing.T) {
	f := &countingFetcher{html: scoredPage}
	opts := testOptions()
	opts.Enabled = false
	c, _ := newTestCache(opts, f, nil)

	c.Ensure(context.Background())
	c.Ensure(context.Background())
	if f.calls != 0 {
		t.Fatalf("disabled cache fetched anyway: calls = %d", f.calls)
	}
	if got := c.Rating01("ChatGPT"); got != 0 {
		t.Fatalf("disabled cache returned a score: %f", got)
	}
}

func TestRenderedFallbackUsedWhenStaticParsesToNothing(t *testing.T) {
	static := &countingFetcher{html: "<html>js only</html>"}
	rendered := &countingFetcher{html: scoredPage}
	c, _ := newTestCache(testOptions(), static, rendered)

	c.Ensure(context.Background())
	if static.calls != 1 || rendered.calls != 1 {
		t.Fatalf("static=%d rendered=%d, want 1/1", static.calls, rendered.calls)
	}
	if got := c.Rating01("ChatGPT"); got != 0.87 {
		t.Fatalf("Rating01(ChatGPT) = %f, want 0.87", got)
	}
}

func TestRefreshForcesInsideTTL(t *testing.T) {
	f := &countingFetcher{html: scoredPage}
	c, _ := newTestCache(testOptions(), f, nil)

	c.Ensure(context.Background())
	ok, count := c.Refresh(context.Background())
	if !ok || count != 2 {
		t.Fatalf("Refresh = (%v, %d), want (true, 2)", ok, count)
	}
	if f.calls != 2 {
		t.Fatalf("forced refresh did not refetch: calls = %d", f.calls)
	}
}

func TestHealth(t *testing.T) {
	f := &countingFetcher{html: scoredPage}
	c, now := newTestCache(testOptions(), f, nil)

	h := c.Health()
	if h.OK || h.Count != 0 || h.Source != "fallback" || h.AgeSeconds != nil {
		t.Fatalf("pristine health = %+v", h)
	}

	c.Ensure(context.Background())
	*now = now.Add(90 * time.Second)
	h = c.Health()
	if !h.OK || h.Count != 2 || h.Source != "live" {
		t.Fatalf("health after fetch = %+v", h)
	}
	if h.AgeSeconds == nil || *h.AgeSeconds != 90 {
		t.Fatalf("age = %v, want 90", h.AgeSeconds)
	}

	f.err = errors.New("down")
	*now = now.Add(7 * time.Hour)
	c.Ensure(context.Background())
	h = c.Health()
	if h.OK || h.Source != "fallback" {
		t.Fatalf("health after failure = %+v", h)
	}
}
