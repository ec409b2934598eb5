// Package preview fetches page metadata for submitted deal URLs so deals
// without an uploaded image still get one.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	maxBodyBytes = 1 << 20 // pages larger than 1MB are cut off mid-parse
	userAgent    = "DealHiveBot/1.0 (+https://dealhive.example)"
)

type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// New builds a fetcher whose outbound requests are bounded by timeout and
// rate-limited to burst 5, one request per second sustained. Enrichment is
// best effort; a submission spike must not turn into an outbound flood.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// FetchImageURL fetches pageURL and returns its og:image URL, or "" when the
// page declares none.
func (f *Fetcher) FetchImageURL(ctx context.Context, pageURL string) (string, error) {
	if !f.limiter.Allow() {
		return "", fmt.Errorf("preview fetch rate limit exceeded")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building preview request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	img := doc.Find(`meta[property="og:image"]`).AttrOr("content", "")
	if img == "" {
		img = doc.Find(`meta[name="twitter:image"]`).AttrOr("content", "")
	}
	return strings.TrimSpace(img), nil
}
