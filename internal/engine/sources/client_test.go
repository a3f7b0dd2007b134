package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves /youtube/v3/<endpoint> from per-endpoint handlers and counts calls.
type fakeAPI struct {
	t        *testing.T
	srv      *httptest.Server
	handlers map[string]http.HandlerFunc
	calls    map[string]*atomic.Int32
	ledger   *engine.QuotaLedger
}

func newFakeAPI(t *testing.T, handlers map[string]http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{t: t, handlers: handlers, calls: map[string]*atomic.Int32{}}
	for name := range handlers {
		f.calls[name] = &atomic.Int32{}
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[len("/youtube/v3/"):]
		h, ok := f.handlers[name]
		if !ok {
			t.Errorf("unexpected endpoint %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("%s: key = %q, want test-key", name, got)
		}
		f.calls[name].Add(1)
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)

	ledger, err := engine.NewQuotaLedger(10000, "")
	require.NoError(t, err)
	f.ledger = ledger
	return f
}

func (f *fakeAPI) client() *Client {
	f.t.Helper()
	c, err := NewClient(context.Background(), Options{
		APIKey:     "test-key",
		Endpoint:   f.srv.URL + "/",
		HTTPClient: f.srv.Client(),
		Timeout:    5 * time.Second,
		Retry:      &engine.RetryConfig{MaxRetries: 1, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1},
		Quota:      f.ledger,
	})
	require.NoError(f.t, err)
	return c
}

func (f *fakeAPI) count(name string) int { return int(f.calls[name].Load()) }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":"%s","errors":[{"reason":"%s","message":"%s"}]}}`,
		code, reason, reason, reason)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Options{APIKey: "  "})
	require.ErrorIs(t, err, engine.ErrNoAPIKey)
}

func TestDoCall_ChargesQuota(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"search": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"items": []any{}})
		},
		"videos": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"items": []any{}})
		},
	})
	c := api.client()

	_, err := c.SearchPages()(context.Background(), paging.PageRequest{
		Kind:     KindSearch,
		Params:   map[string]string{"q": "golang"},
		PageSize: 5,
	})
	require.NoError(t, err)
	_, err = c.GetVideos(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	snap := api.ledger.Snapshot()
	assert.Equal(t, int64(101), snap.Used)
	assert.Equal(t, int64(100), snap.ByEndpoint["search"])
	assert.Equal(t, int64(1), snap.ByEndpoint["videos"])
}

func TestDoCall_RetriesTransient(t *testing.T) {
	var n atomic.Int32
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"videos": func(w http.ResponseWriter, r *http.Request) {
			if n.Add(1) == 1 {
				writeAPIError(w, http.StatusServiceUnavailable, "backendError")
				return
			}
			writeJSON(w, map[string]any{"items": []any{map[string]any{"id": "dQw4w9WgXcQ"}}})
		},
	})
	v, err := api.client().GetVideo(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", v.ID)
	assert.Equal(t, 2, api.count("videos"))
}

func TestDoCall_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		reason string
		want   error
		calls  int
	}{
		{"quota", http.StatusForbidden, "quotaExceeded", ErrQuotaExceeded, 1},
		{"daily limit", http.StatusForbidden, "dailyLimitExceeded", ErrQuotaExceeded, 1},
		{"comments disabled", http.StatusForbidden, "commentsDisabled", ErrCommentsDisabled, 1},
		{"forbidden", http.StatusForbidden, "forbidden", ErrForbidden, 1},
		{"not found", http.StatusNotFound, "videoNotFound", ErrNotFound, 1},
		{"bad request", http.StatusBadRequest, "invalidParameter", ErrBadRequest, 1},
		{"rate limited", http.StatusTooManyRequests, "rateLimitExceeded", ErrRateLimited, 2},
		{"server", http.StatusInternalServerError, "backendError", ErrTransport, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, map[string]http.HandlerFunc{
				"videos": func(w http.ResponseWriter, r *http.Request) {
					writeAPIError(w, tt.code, tt.reason)
				},
			})
			_, err := api.client().GetVideos(context.Background(), "dQw4w9WgXcQ")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrUpstreamUnavailable)

			var ae *APIError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.code, ae.Status)
			assert.Equal(t, tt.reason, ae.Reason)
			assert.Equal(t, "videos", ae.Endpoint)
			assert.Equal(t, tt.calls, api.count("videos"))
		})
	}
}

func TestDoCall_TransportFailure(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{})
	c := api.client()
	api.srv.Close()

	_, err := c.GetVideos(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestDoCall_ContextCanceled(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"videos": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"items": []any{}})
		},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.client().GetVideos(ctx, "dQw4w9WgXcQ")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, api.count("videos"))
}

func TestGetVideo_NotFound(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"videos": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"items": []any{}})
		},
	})
	_, err := api.client().GetVideo(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
