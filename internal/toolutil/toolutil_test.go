package toolutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		n, def, lo, hi, want int
	}{
		{0, 10, 1, 50, 10},
		{-3, 10, 1, 50, 1},
		{75, 10, 1, 50, 50},
		{25, 10, 1, 50, 25},
	}
	for _, tt := range tests {
		if got := Clamp(tt.n, tt.def, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d, %d) = %d, want %d", tt.n, tt.def, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestNormChoice(t *testing.T) {
	if got := NormChoice(" VIEWCOUNT ", "relevance", "relevance", "viewCount"); got != "viewCount" {
		t.Errorf("got %q, want viewCount", got)
	}
	if got := NormChoice("newest", "relevance", "relevance", "time"); got != "relevance" {
		t.Errorf("got %q, want relevance", got)
	}
}

func TestNormRegionAndLang(t *testing.T) {
	if got := NormRegion(""); got != DefaultRegion {
		t.Errorf("NormRegion(\"\") = %q", got)
	}
	if got := NormRegion(" gb"); got != "GB" {
		t.Errorf("NormRegion(gb) = %q", got)
	}
	if got := NormLang(" PT-br ", "en"); got != "pt-br" {
		t.Errorf("NormLang = %q", got)
	}
	if got := NormLang("", "en"); got != "en" {
		t.Errorf("NormLang empty = %q", got)
	}
}

type cachedValue struct {
	N int `json:"n"`
}

func TestCached(t *testing.T) {
	engine.InitCache("", time.Minute, 100, time.Minute)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (cachedValue, error) {
		calls++
		return cachedValue{N: calls}, nil
	}
	first, err := Cached(ctx, "toolutil-test-hit", compute)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Cached(ctx, "toolutil-test-hit", compute)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || first != second {
		t.Errorf("calls = %d, first = %+v, second = %+v", calls, first, second)
	}

	boom := errors.New("boom")
	failing := func(context.Context) (cachedValue, error) {
		calls++
		return cachedValue{}, boom
	}
	for range 2 {
		if _, err := Cached(ctx, "toolutil-test-err", failing); !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("errors must not be cached, calls = %d", calls)
	}
}
