package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	APIRequests         atomic.Int64
	APIErrors           atomic.Int64
	PagesFetched        atomic.Int64
	DeepExpansions      atomic.Int64
	DeepExpansionErrors atomic.Int64
	ChannelLookups      atomic.Int64
	TranscriptRequests  atomic.Int64
	TranscriptErrors    atomic.Int64
}

// metricKeys fixes the rendering order of FormatMetrics.
var metricKeys = []string{
	"api_requests", "api_errors", "pages_fetched",
	"deep_expansions", "deep_expansion_errors",
	"channel_lookups",
	"transcript_requests", "transcript_errors",
	"quota_units_today",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache and quota stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"api_requests":          metrics.APIRequests.Load(),
		"api_errors":            metrics.APIErrors.Load(),
		"pages_fetched":         metrics.PagesFetched.Load(),
		"deep_expansions":       metrics.DeepExpansions.Load(),
		"deep_expansion_errors": metrics.DeepExpansionErrors.Load(),
		"channel_lookups":       metrics.ChannelLookups.Load(),
		"transcript_requests":   metrics.TranscriptRequests.Load(),
		"transcript_errors":     metrics.TranscriptErrors.Load(),
		"quota_units_today":     Quota().Snapshot().Used,
		"cache_hits":            hits,
		"cache_misses":          misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the sources/ sub-package.
func IncrAPIRequests() { metrics.APIRequests.Add(1) }
func IncrAPIErrors() { metrics.APIErrors.Add(1) }
func IncrPagesFetched() { metrics.PagesFetched.Add(1) }
func IncrChannelLookups() { metrics.ChannelLookups.Add(1) }
func IncrTranscript() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptErrors() { metrics.TranscriptErrors.Add(1) }

// AddDeepExpansions records the outcome of one reply expansion run.
func AddDeepExpansions(ok, failed int) {
	metrics.DeepExpansions.Add(int64(ok))
	metrics.DeepExpansionErrors.Add(int64(failed))
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
