// Package paging walks continuation-token paginated sources.
//
// Collect gathers up to a target number of items, Drain reads a source until
// the upstream stops returning a continuation token, and ExpandThreads drains a
// secondary source (replies) for a bounded number of parent items. All fetches
// run sequentially on the caller's goroutine.
package paging

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
)

// MaxPageSize is the largest page the upstream API serves.
const MaxPageSize = 100

// Unbounded is the target used by Drain.
const Unbounded = math.MaxInt

var (
	// ErrInvalidBudget is returned for budgets outside the accepted ranges.
	ErrInvalidBudget = errors.New("paging: invalid budget")
	// ErrStalledCursor is returned when the upstream hands back the token it was just given.
	ErrStalledCursor = errors.New("paging: continuation token did not advance")
)

// PageRequest describes one page fetch.
type PageRequest struct {
	Kind      string            // upstream resource, e.g. "commentThreads"
	Params    map[string]string // filter parameters
	PageToken string            // empty for the first page
	PageSize  int               // 1..MaxPageSize
}

// WithParam returns a copy of r with key set to value.
func (r PageRequest) WithParam(key, value string) PageRequest {
	params := make(map[string]string, len(r.Params)+1)
	maps.Copy(params, r.Params)
	params[key] = value
	r.Params = params
	return r
}

// PageResult is one page of items.
type PageResult[T any] struct {
	Items         []T
	NextPageToken string // empty when the stream has ended
	TotalResults  *int64 // upstream-declared total, informational only
}

// FetchFunc fetches one page.
type FetchFunc[T any] func(ctx context.Context, req PageRequest) (PageResult[T], error)

// Budget bounds a Collect call.
type Budget struct {
	Target  int // items wanted, >= 1
	PerPage int // page size cap, 1..MaxPageSize
}

// Validate checks the budget ranges.
func (b Budget) Validate() error {
	if b.Target < 1 {
		return fmt.Errorf("%w: target %d < 1", ErrInvalidBudget, b.Target)
	}
	if b.PerPage < 1 || b.PerPage > MaxPageSize {
		return fmt.Errorf("%w: per-page %d not in [1, %d]", ErrInvalidBudget, b.PerPage, MaxPageSize)
	}
	return nil
}

// Aggregate is the outcome of Collect or Drain.
type Aggregate[T any] struct {
	Items          []T
	TotalAvailable *int64 // first upstream-declared total seen
	Truncated      bool   // target reached while the upstream still had pages
	NextPageToken  string // set when Truncated
	Fetches        int
}

// Collect fetches pages until the target is reached, a page comes back empty,
// or the upstream stops returning a continuation token.
//
// Each request asks for min(remaining, PerPage) items, so at most
// ceil(Target/PerPage) fetches are made when the upstream fills every page.
func Collect[T any](ctx context.Context, fetch FetchFunc[T], base PageRequest, b Budget) (Aggregate[T], error) {
	var agg Aggregate[T]
	if err := b.Validate(); err != nil {
		return agg, err
	}

	token := ""
	for {
		remaining := b.Target - len(agg.Items)
		if remaining <= 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return agg, err
		}

		req := base
		req.PageToken = token
		req.PageSize = min(remaining, b.PerPage)

		page, err := fetch(ctx, req)
		agg.Fetches++
		if err != nil {
			return agg, fmt.Errorf("%s page %d: %w", base.Kind, agg.Fetches, err)
		}
		if agg.TotalAvailable == nil && page.TotalResults != nil {
			total := *page.TotalResults
			agg.TotalAvailable = &total
		}
		if len(page.Items) == 0 {
			token = ""
			break
		}

		agg.Items = append(agg.Items, page.Items...)
		if page.NextPageToken == "" {
			token = ""
			break
		}
		if page.NextPageToken == token {
			return agg, fmt.Errorf("%s page %d: %w", base.Kind, agg.Fetches, ErrStalledCursor)
		}
		token = page.NextPageToken
	}

	if token != "" && len(agg.Items) >= b.Target {
		agg.Truncated = true
		agg.NextPageToken = token
	}
	return agg, nil
}

// Drain reads every page of the source at the maximum page size.
func Drain[T any](ctx context.Context, fetch FetchFunc[T], base PageRequest) (Aggregate[T], error) {
	return Collect(ctx, fetch, base, Budget{Target: Unbounded, PerPage: MaxPageSize})
}
