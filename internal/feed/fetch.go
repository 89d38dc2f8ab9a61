package feed

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPFetcher retrieves the remote feed document with bounded retries and a
// fixed delay between attempts.
type HTTPFetcher struct {
	url        string
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
}

// NewHTTPFetcher creates a fetcher for the given feed URL. maxRetries is the
// total number of attempts; the timeout applies per attempt.
func NewHTTPFetcher(url string, timeout time.Duration, userAgent string, maxRetries int, retryDelay time.Duration) *HTTPFetcher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &HTTPFetcher{
		url:        url,
		userAgent:  userAgent,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		client:     &http.Client{Timeout: timeout},
	}
}

// Fetch returns the raw response body of the first attempt that succeeds.
// After the final attempt fails it returns a single aggregated error wrapping
// the last underlying cause.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		body, err := f.fetchOnce(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt < f.maxRetries {
			log.Printf("feed fetch attempt %d/%d failed, retrying in %s: %v",
				attempt, f.maxRetries, f.retryDelay, err)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("feed fetch cancelled: %w", ctx.Err())
			case <-time.After(f.retryDelay):
			}
		}
	}
	return nil, fmt.Errorf("feed fetch failed after %d attempts: %w", f.maxRetries, lastErr)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
