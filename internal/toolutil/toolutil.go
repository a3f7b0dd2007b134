// Package toolutil provides shared helper functions for go_youtube MCP tools.
package toolutil

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// DefaultRegion is used when a tool gets no region code.
const DefaultRegion = "US"

// NormRegion normalises a region code: trimmed, upper-case, empty → "US".
func NormRegion(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return DefaultRegion
	}
	return region
}

// NormLang normalises a language field: trimmed, lower-case, empty → def.
func NormLang(lang, def string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return def
	}
	return lang
}

// NormChoice returns v if it is one of allowed (case-insensitive), else def.
func NormChoice(v, def string, allowed ...string) string {
	v = strings.TrimSpace(v)
	if i := slices.IndexFunc(allowed, func(a string) bool { return strings.EqualFold(a, v) }); i >= 0 {
		return allowed[i]
	}
	return def
}

// Clamp returns n limited to [lo, hi]; zero (unset) becomes def.
func Clamp(n, def, lo, hi int) int {
	if n == 0 {
		return def
	}
	return max(lo, min(n, hi))
}

// CacheLoadJSON tries to load a cached value of type T from the engine cache.
// Returns the decoded value and true on hit; zero value and false on miss or decode error.
func CacheLoadJSON[T any](ctx context.Context, key string) (T, bool) {
	var out T
	cached, ok := engine.CacheGet(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(cached, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it in the engine cache.
func CacheStoreJSON[T any](ctx context.Context, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	engine.CacheSet(ctx, key, data)
}

// Cached serves key from the cache or computes, stores and returns a fresh value.
// Errors are never cached.
func Cached[T any](ctx context.Context, key string, compute func(context.Context) (T, error)) (T, error) {
	if out, ok := CacheLoadJSON[T](ctx, key); ok {
		return out, nil
	}
	out, err := compute(ctx)
	if err != nil {
		return out, err
	}
	CacheStoreJSON(ctx, key, out)
	return out, nil
}
