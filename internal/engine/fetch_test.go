package engine

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func withHTTPClient(t *testing.T, c *http.Client) {
	t.Helper()
	prev := Cfg.HTTPClient
	Cfg.HTTPClient = c
	t.Cleanup(func() { Cfg.HTTPClient = prev })
}

func TestFetchBodyRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.Header.Get("User-Agent") != UserAgentChrome {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()
	withHTTPClient(t, srv.Client())

	body, err := FetchBody(context.Background(), BrowserGet(srv.URL), MaxPageBytes)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<html>ok</html>" {
		t.Errorf("body = %q", body)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestFetchBodyPermanentStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	withHTTPClient(t, srv.Client())

	_, err := FetchBody(context.Background(), BrowserGet(srv.URL), MaxPageBytes)
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("err = %v, want status 404", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchBodyGzipAndLimit(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte(strings.Repeat("a", 100)))
	gz.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()
	withHTTPClient(t, srv.Client())

	body, err := FetchBody(context.Background(), BrowserGet(srv.URL), 10)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != strings.Repeat("a", 10) {
		t.Errorf("body = %q", body)
	}
}
