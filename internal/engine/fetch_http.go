package engine

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Maximum bytes read from one web response.
const (
	MaxPageBytes    = 6 << 20
	MaxCaptionBytes = 2 << 20
)

// RequestBuilder builds a fresh request for each attempt.
type RequestBuilder func(ctx context.Context) (*http.Request, error)

// BrowserGet returns a builder for a GET with Chrome-like HTML headers.
func BrowserGet(url string) RequestBuilder {
	return func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgentChrome)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept-Encoding", "gzip")
		return req, nil
	}
}

// FetchBody performs a request built by build on Cfg.HTTPClient, retrying
// retryable statuses and network errors with exponential backoff, and
// returns at most limit bytes of the (decompressed) body.
func FetchBody(ctx context.Context, build RequestBuilder, limit int64) ([]byte, error) {
	client := Cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	operation := func() ([]byte, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}
		defer resp.Body.Close()

		if IsRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		body, err := readResponseBody(resp, limit)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return body, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(3), backoff.WithMaxElapsedTime(20*time.Second))
}

// readResponseBody reads up to limit bytes, decompressing gzip when the
// server sent it for a request that asked explicitly.
func readResponseBody(resp *http.Response, limit int64) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, limit))
}
