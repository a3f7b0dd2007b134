package paging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replySource serves replies per parent in pages of up to MaxPageSize.
type replySource struct {
	replies map[string]int
	fail    map[string]error
	calls   map[string]int
}

func newReplySource(replies map[string]int) *replySource {
	return &replySource{replies: replies, fail: map[string]error{}, calls: map[string]int{}}
}

func (s *replySource) fetch(_ context.Context, req PageRequest) (PageResult[string], error) {
	parent := req.Params["parentId"]
	s.calls[parent]++
	if err, ok := s.fail[parent]; ok && s.calls[parent] > 1 {
		return PageResult[string]{}, err
	}
	offset := 0
	if req.PageToken != "" {
		offset, _ = strconv.Atoi(req.PageToken)
	}
	end := min(offset+req.PageSize, s.replies[parent])
	var items []string
	for i := offset; i < end; i++ {
		items = append(items, fmt.Sprintf("%s/r%d", parent, i))
	}
	res := PageResult[string]{Items: items}
	if end < s.replies[parent] {
		res.NextPageToken = strconv.Itoa(end)
	}
	return res, nil
}

func byParent(id string) PageRequest {
	return PageRequest{Kind: "comments", Params: map[string]string{"parentId": id}}
}

func inline(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "inline"
	}
	return out
}

func TestExpandThreadsFirstQualifyingInOrder(t *testing.T) {
	threads := []Thread[string]{
		{ID: "t0", Replies: inline(5), TotalReplies: 12},
		{ID: "t1", Replies: inline(2), TotalReplies: 2},
		{ID: "t2", Replies: inline(1), TotalReplies: 30},
		{ID: "t3", Replies: inline(5), TotalReplies: 400},
		{ID: "t4", Replies: nil, TotalReplies: 0},
	}
	src := newReplySource(map[string]int{"t0": 12, "t2": 30, "t3": 400})

	rep, err := ExpandThreads(context.Background(), threads, src.fetch, byParent, DeepBudget{MaxParents: 2})
	require.NoError(t, err)
	assert.Equal(t, ExpansionReport{Attempted: 2, Expanded: 2}, rep)

	assert.True(t, threads[0].Expanded)
	assert.Len(t, threads[0].Replies, 12)
	assert.False(t, threads[1].Expanded)
	assert.True(t, threads[2].Expanded)
	assert.Len(t, threads[2].Replies, 30)

	assert.False(t, threads[3].Expanded)
	assert.Len(t, threads[3].Replies, 5)
	assert.Zero(t, src.calls["t3"])
	assert.Zero(t, src.calls["t1"])
}

func TestExpandThreadsDrainsAllPages(t *testing.T) {
	threads := []Thread[string]{{ID: "big", Replies: inline(5), TotalReplies: 300}}
	src := newReplySource(map[string]int{"big": 300})

	rep, err := ExpandThreads(context.Background(), threads, src.fetch, byParent, DeepBudget{MaxParents: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Expanded)
	assert.Equal(t, 3, src.calls["big"])
	assert.True(t, threads[0].Expanded)
	assert.Len(t, threads[0].Replies, 300)
	assert.Equal(t, "big/r299", threads[0].Replies[299])
}

func TestExpandThreadsZeroBudget(t *testing.T) {
	threads := []Thread[string]{{ID: "t0", Replies: inline(1), TotalReplies: 9}}
	src := newReplySource(map[string]int{"t0": 9})

	rep, err := ExpandThreads(context.Background(), threads, src.fetch, byParent, DeepBudget{})
	require.NoError(t, err)
	assert.Zero(t, rep.Attempted)
	assert.Empty(t, src.calls)
	assert.Len(t, threads[0].Replies, 1)
}

func TestExpandThreadsFailureKeepsInlineReplies(t *testing.T) {
	threads := []Thread[string]{
		{ID: "bad", Replies: inline(5), TotalReplies: 250},
		{ID: "good", Replies: inline(5), TotalReplies: 7},
		{ID: "late", Replies: inline(1), TotalReplies: 3},
	}
	src := newReplySource(map[string]int{"bad": 250, "good": 7, "late": 3})
	boom := errors.New("transport failure")
	src.fail["bad"] = boom

	rep, err := ExpandThreads(context.Background(), threads, src.fetch, byParent, DeepBudget{MaxParents: 2})
	require.NoError(t, err)
	assert.Equal(t, ExpansionReport{Attempted: 2, Expanded: 1, Failed: 1}, rep)

	assert.False(t, threads[0].Expanded)
	assert.Len(t, threads[0].Replies, 5)
	assert.ErrorIs(t, threads[0].ExpandErr, boom)

	assert.True(t, threads[1].Expanded)
	assert.Len(t, threads[1].Replies, 7)

	// the failed attempt used up budget
	assert.False(t, threads[2].Expanded)
	assert.Zero(t, src.calls["late"])
}

func TestExpandThreadsContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	threads := []Thread[string]{
		{ID: "a", Replies: inline(1), TotalReplies: 2},
		{ID: "b", Replies: inline(1), TotalReplies: 2},
	}
	fetch := func(ctx context.Context, req PageRequest) (PageResult[string], error) {
		cancel()
		return PageResult[string]{}, ctx.Err()
	}

	_, err := ExpandThreads(ctx, threads, fetch, byParent, DeepBudget{MaxParents: 5})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, threads[0].Expanded)
	assert.Nil(t, threads[0].ExpandErr)
	assert.Len(t, threads[0].Replies, 1)
}
