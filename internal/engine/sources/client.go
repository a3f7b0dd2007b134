package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Options configures a Client.
type Options struct {
	APIKey           string
	Endpoint         string        // Data API base URL override, e.g. an httptest server + "/"
	HTTPClient       *http.Client  // nil = engine.Cfg.HTTPClient
	Timeout          time.Duration // per-call timeout, 0 = none
	RequestsPerSec   float64       // 0 = unlimited
	ChannelCacheSize int
	Retry            *engine.RetryConfig // nil = engine.DefaultRetryConfig
	Quota            *engine.QuotaLedger // nil = engine.Quota()
}

// Client is the Data API v3 collaborator used by every tool. It paces calls,
// retries transient failures, charges the quota ledger and classifies errors.
type Client struct {
	svc      *youtube.Service
	limiter  *rate.Limiter
	timeout  time.Duration
	retry    engine.RetryConfig
	quota    *engine.QuotaLedger
	channels *lru.Cache[string, string] // "form:name" → UC id
}

// keyTransport appends the API key to every request.
type keyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set("key", t.key)
	r.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(r)
}

// NewClient builds a Client. The API key is required.
func NewClient(ctx context.Context, o Options) (*Client, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, engine.ErrNoAPIKey
	}

	base := o.HTTPClient
	if base == nil {
		base = engine.Cfg.HTTPClient
	}
	if base == nil {
		base = http.DefaultClient
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	hc := &http.Client{
		Transport:     &keyTransport{key: o.APIKey, base: rt},
		Timeout:       base.Timeout,
		CheckRedirect: base.CheckRedirect,
	}

	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if o.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(o.Endpoint))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}

	size := o.ChannelCacheSize
	if size <= 0 {
		size = 512
	}
	channels, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("channel cache: %w", err)
	}

	limit := rate.Inf
	if o.RequestsPerSec > 0 {
		limit = rate.Limit(o.RequestsPerSec)
	}
	burst := max(1, int(o.RequestsPerSec))

	rc := engine.DefaultRetryConfig
	if o.Retry != nil {
		rc = *o.Retry
	}
	quota := o.Quota
	if quota == nil {
		quota = engine.Quota()
	}

	return &Client{
		svc:      svc,
		limiter:  rate.NewLimiter(limit, burst),
		timeout:  o.Timeout,
		retry:    rc,
		quota:    quota,
		channels: channels,
	}, nil
}

// NewClientFromConfig builds a Client from engine.Cfg.
func NewClientFromConfig(ctx context.Context) (*Client, error) {
	c := engine.Cfg
	return NewClient(ctx, Options{
		APIKey:           c.YouTubeAPIKey,
		Endpoint:         c.YouTubeAPIEndpoint,
		HTTPClient:       c.HTTPClient,
		Timeout:          c.FetchTimeout,
		RequestsPerSec:   c.RequestsPerSecond,
		ChannelCacheSize: c.ChannelCacheSize,
	})
}

// doCall runs one Data API call on endpoint: rate limit, per-attempt timeout,
// quota charge, bounded retry of transient failures, error classification.
func doCall[T any](ctx context.Context, c *Client, endpoint string, fn func(ctx context.Context) (T, error)) (T, error) {
	attempt := func() (T, error) {
		var zero T
		if err := c.limiter.Wait(ctx); err != nil {
			return zero, err
		}
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		engine.IncrAPIRequests()
		c.quota.Charge(ctx, endpoint)
		return fn(callCtx)
	}

	out, err := engine.RetryDo(ctx, c.retry, attempt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		engine.IncrAPIErrors()
		err = classify(endpoint, err)
		slog.Debug("youtube: call failed", slog.String("endpoint", endpoint), slog.Any("error", err))
		return out, err
	}
	return out, nil
}
