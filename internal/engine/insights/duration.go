// Package insights derives assessments from video metadata: engagement rates
// and a knowledge-base worthiness score. Everything here is pure; callers pass
// the clock in.
package insights

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrBadDuration is returned for strings that are not ISO-8601 durations.
var ErrBadDuration = errors.New("invalid ISO-8601 duration")

// P[nW][nD][T[nH][nM][n(.n)S]] as used by contentDetails.duration.
var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseDuration parses an ISO-8601 video duration such as "PT1H2M3S" or "P1DT2H".
// "P0D" (live streams) is zero.
func ParseDuration(s string) (time.Duration, error) {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
	}

	var d time.Duration
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
		}
		d += time.Duration(n) * unit
	}
	if m[5] != "" {
		sec, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
		}
		d += time.Duration(sec * float64(time.Second))
	}
	return d, nil
}

// FormatDuration renders d as "1h 2m 3s", dropping leading zero units.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// AgeDays returns whole days between published (RFC 3339) and now.
// ok is false when published cannot be parsed.
func AgeDays(published string, now time.Time) (days int, ok bool) {
	t, err := time.Parse(time.RFC3339, published)
	if err != nil {
		return 0, false
	}
	return int(now.Sub(t) / (24 * time.Hour)), true
}
