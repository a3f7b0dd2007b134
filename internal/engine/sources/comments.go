package sources

import (
	"context"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/paging"
	"google.golang.org/api/youtube/v3"
)

// CommentQuery selects top-level comments of a video.
type CommentQuery struct {
	VideoID    string
	Order      string // "time" or "relevance"
	MaxThreads int    // >= 1
	MaxDeep    int    // threads whose replies are fully drained, >= 0
}

// CommentResult is the aggregated comment section.
type CommentResult struct {
	Threads        []CommentThread        `json:"threads"`
	TotalAvailable *int64                 `json:"total_available,omitempty"`
	Truncated      bool                   `json:"truncated"`
	Fetches        int                    `json:"page_fetches"`
	Expansion      paging.ExpansionReport `json:"deep_expansion"`
}

// FetchComments collects up to MaxThreads top-level comments, 100 per page,
// then drains the full reply list of the first MaxDeep threads that have more
// replies than were inlined.
func (c *Client) FetchComments(ctx context.Context, q CommentQuery) (CommentResult, error) {
	base := paging.PageRequest{
		Kind:   KindCommentThreads,
		Params: map[string]string{"videoId": q.VideoID, "order": q.Order},
	}
	agg, err := paging.Collect(ctx, c.CommentThreadPages(), base, paging.Budget{
		Target:  q.MaxThreads,
		PerPage: paging.MaxPageSize,
	})
	if err != nil {
		return CommentResult{}, err
	}

	threads := make([]paging.Thread[Comment], len(agg.Items))
	tops := make([]Comment, len(agg.Items))
	for i, ct := range agg.Items {
		threads[i], tops[i] = threadFromAPI(ct)
	}

	rep, err := paging.ExpandThreads(ctx, threads, c.ReplyPages(), replyRequest, paging.DeepBudget{MaxParents: q.MaxDeep})
	if err != nil {
		return CommentResult{}, err
	}
	engine.AddDeepExpansions(rep.Expanded, rep.Failed)

	out := CommentResult{
		Threads:        make([]CommentThread, len(threads)),
		TotalAvailable: agg.TotalAvailable,
		Truncated:      agg.Truncated,
		Fetches:        agg.Fetches,
		Expansion:      rep,
	}
	for i, t := range threads {
		ct := CommentThread{
			ID:              agg.Items[i].Id,
			Comment:         tops[i],
			TotalReplies:    t.TotalReplies,
			Replies:         t.Replies,
			RepliesComplete: t.Expanded || t.TotalReplies <= len(t.Replies),
		}
		if ct.Replies == nil {
			ct.Replies = []Comment{}
		}
		if t.ExpandErr != nil {
			ct.ExpandError = t.ExpandErr.Error()
		}
		out.Threads[i] = ct
	}
	return out, nil
}

// replyRequest keys the reply drain by the top-level comment ID.
func replyRequest(parentID string) paging.PageRequest {
	return paging.PageRequest{Kind: KindComments, Params: map[string]string{"parentId": parentID}}
}

// threadFromAPI splits a thread into its expansion state and top-level comment.
func threadFromAPI(ct *youtube.CommentThread) (paging.Thread[Comment], Comment) {
	var top Comment
	t := paging.Thread[Comment]{ID: ct.Id}
	if s := ct.Snippet; s != nil {
		top = commentFromAPI(s.TopLevelComment)
		if top.ID != "" {
			t.ID = top.ID
		}
		t.TotalReplies = int(s.TotalReplyCount)
	}
	if ct.Replies != nil {
		for _, r := range ct.Replies.Comments {
			t.Replies = append(t.Replies, commentFromAPI(r))
		}
	}
	return t, top
}
