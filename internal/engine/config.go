package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey             string
	YouTubeAPIEndpoint        string // empty = googleapis.com default
	YouTubeTranscriptsEnabled bool
	WatchPageBase             string // watch page and innertube host, overridable in tests
	FetchTimeout              time.Duration
	RequestsPerSecond         float64
	DailyQuota                int64
	QuotaDBPath               string // empty = in-memory ledger only
	ChannelCacheSize          int
	CacheMaxEntries           int
	CacheCleanupInterval      time.Duration
	HTTPClient                *http.Client
}

// DefaultWatchPageBase is the public YouTube web origin.
const DefaultWatchPageBase = "https://www.youtube.com"

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, insights).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.WatchPageBase == "" {
		c.WatchPageBase = DefaultWatchPageBase
	}
	cfg = c
	Cfg = &cfg
}
