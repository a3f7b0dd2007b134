package paging

import (
	"context"
	"errors"
	"log/slog"
)

// Thread is a parent item with its inline replies.
type Thread[R any] struct {
	ID           string
	Replies      []R
	TotalReplies int   // upstream-declared reply count
	Expanded     bool  // Replies holds the full drained set
	ExpandErr    error // last expansion failure, Replies kept as received inline
}

// needsExpansion reports whether the upstream declared more replies than were delivered inline.
func (t *Thread[R]) needsExpansion() bool {
	return t.TotalReplies > len(t.Replies)
}

// DeepBudget caps how many parents get a full reply fetch.
type DeepBudget struct {
	MaxParents int // 0 disables expansion
}

// ExpansionReport summarizes an ExpandThreads run.
type ExpansionReport struct {
	Attempted int `json:"attempted"`
	Expanded  int `json:"expanded"`
	Failed    int `json:"failed"`
}

// ExpandThreads drains the full reply list for up to budget.MaxParents threads
// whose declared reply count exceeds the inline replies, in order.
//
// A failed parent keeps its inline replies, records ExpandErr and still counts
// against the budget. Only context cancellation aborts the run.
func ExpandThreads[R any](
	ctx context.Context,
	threads []Thread[R],
	fetch FetchFunc[R],
	keyed func(parentID string) PageRequest,
	budget DeepBudget,
) (ExpansionReport, error) {
	var rep ExpansionReport
	if budget.MaxParents <= 0 {
		return rep, nil
	}

	for i := range threads {
		if rep.Attempted >= budget.MaxParents {
			break
		}
		t := &threads[i]
		if !t.needsExpansion() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		rep.Attempted++
		agg, err := Drain(ctx, fetch, keyed(t.ID))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return rep, ctxErr
				}
			}
			rep.Failed++
			t.ExpandErr = err
			slog.Warn("paging: reply expansion failed",
				slog.String("parent", t.ID),
				slog.Int("inline", len(t.Replies)),
				slog.Any("error", err))
			continue
		}

		t.Replies = agg.Items
		t.Expanded = true
		t.ExpandErr = nil
		rep.Expanded++
	}
	return rep, nil
}
