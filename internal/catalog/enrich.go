package catalog

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	readability "github.com/go-shiori/go-readability"
)

// Enricher fetches a tool's website with a headless browser and extracts a
// short readable description from the rendered page.
type Enricher struct {
	Timeout  time.Duration
	MaxChars int
}

func NewEnricher(timeout time.Duration, maxChars int) *Enricher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxChars <= 0 {
		maxChars = 600
	}
	return &Enricher{Timeout: timeout, MaxChars: maxChars}
}

// Describe returns a description snippet for the page at website.
func (e *Enricher) Describe(ctx context.Context, website string) (string, error) {
	if strings.TrimSpace(website) == "" {
		return "", errors.New("empty website")
	}
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	html, err := fetchHTML(ctx, website)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(strings.NewReader(html), mustParseURL(website))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(article.Excerpt)
	if text == "" {
		text = strings.TrimSpace(article.TextContent)
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > e.MaxChars {
		text = text[:e.MaxChars]
	}
	return text, nil
}

func fetchHTML(ctx context.Context, target string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
