package sources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replyCounts is the totalReplyCount of each fake top-level comment.
var replyCounts = []int{0, 150, 1, 7, 0}

func replyJSON(parent string, i int) map[string]any {
	return map[string]any{
		"id": fmt.Sprintf("%s.r%d", parent, i),
		"snippet": map[string]any{
			"textDisplay":       fmt.Sprintf("reply %d", i),
			"authorDisplayName": "replier",
			"parentId":          parent,
			"likeCount":         i,
		},
	}
}

// serveOffsetPage pages total items by maxResults with numeric offset tokens.
func serveOffsetPage(r *http.Request, total int) (from, to int, next string) {
	from, _ = strconv.Atoi(r.URL.Query().Get("pageToken"))
	size, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
	if size <= 0 {
		size = 20
	}
	to = min(from+size, total)
	if to < total {
		next = strconv.Itoa(to)
	}
	return from, to, next
}

func commentThreadsHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "dQw4w9WgXcQ", q.Get("videoId"))
		assert.Equal(t, "plainText", q.Get("textFormat"))
		from, to, next := serveOffsetPage(r, len(replyCounts))
		items := []any{}
		for i := from; i < to; i++ {
			id := fmt.Sprintf("c%d", i)
			inline := []any{}
			for j := 0; j < min(replyCounts[i], 5); j++ {
				inline = append(inline, replyJSON(id, j))
			}
			items = append(items, map[string]any{
				"id": "thread-" + id,
				"snippet": map[string]any{
					"videoId":         "dQw4w9WgXcQ",
					"totalReplyCount": replyCounts[i],
					"topLevelComment": map[string]any{
						"id":      id,
						"snippet": map[string]any{"textDisplay": "top " + id, "authorDisplayName": "author"},
					},
				},
				"replies": map[string]any{"comments": inline},
			})
		}
		writeJSON(w, map[string]any{
			"items":         items,
			"nextPageToken": next,
			"pageInfo":      map[string]any{"totalResults": len(replyCounts)},
		})
	}
}

func repliesHandler(failFor string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parent := r.URL.Query().Get("parentId")
		if parent == failFor {
			writeAPIError(w, http.StatusBadRequest, "processingFailure")
			return
		}
		var idx int
		fmt.Sscanf(parent, "c%d", &idx)
		from, to, next := serveOffsetPage(r, replyCounts[idx])
		items := []any{}
		for i := from; i < to; i++ {
			items = append(items, replyJSON(parent, i))
		}
		writeJSON(w, map[string]any{"items": items, "nextPageToken": next})
	}
}

func TestFetchComments_DeepExpansion(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"commentThreads": commentThreadsHandler(t),
		"comments":       repliesHandler(""),
	})

	res, err := api.client().FetchComments(context.Background(), CommentQuery{
		VideoID:    "dQw4w9WgXcQ",
		Order:      "relevance",
		MaxThreads: 3,
		MaxDeep:    1,
	})
	require.NoError(t, err)

	require.Len(t, res.Threads, 3)
	assert.True(t, res.Truncated)
	assert.Equal(t, 1, res.Fetches)
	require.NotNil(t, res.TotalAvailable)
	assert.Equal(t, int64(5), *res.TotalAvailable)

	assert.Equal(t, "c0", res.Threads[0].ID)
	assert.Empty(t, res.Threads[0].Replies)
	assert.True(t, res.Threads[0].RepliesComplete)

	deep := res.Threads[1]
	assert.Equal(t, "top c1", deep.Comment.Text)
	assert.Len(t, deep.Replies, 150)
	assert.True(t, deep.RepliesComplete)
	assert.Equal(t, "c1.r149", deep.Replies[149].ID)
	assert.Equal(t, 2, api.count("comments"))

	assert.Len(t, res.Threads[2].Replies, 1)
	assert.True(t, res.Threads[2].RepliesComplete)

	assert.Equal(t, 1, res.Expansion.Attempted)
	assert.Equal(t, 1, res.Expansion.Expanded)
}

func TestFetchComments_FewerThanRequested(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"commentThreads": commentThreadsHandler(t),
		"comments":       repliesHandler(""),
	})

	res, err := api.client().FetchComments(context.Background(), CommentQuery{
		VideoID:    "dQw4w9WgXcQ",
		MaxThreads: 10,
		MaxDeep:    0,
	})
	require.NoError(t, err)
	assert.Len(t, res.Threads, 5)
	assert.False(t, res.Truncated)
	assert.Equal(t, 0, api.count("comments"))

	// without deep expansion only the inline replies are present
	assert.Len(t, res.Threads[1].Replies, 5)
	assert.False(t, res.Threads[1].RepliesComplete)
	assert.Len(t, res.Threads[3].Replies, 5)
	assert.False(t, res.Threads[3].RepliesComplete)
}

func TestFetchComments_ExpansionFailureKeepsInline(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"commentThreads": commentThreadsHandler(t),
		"comments":       repliesHandler("c1"),
	})

	res, err := api.client().FetchComments(context.Background(), CommentQuery{
		VideoID:    "dQw4w9WgXcQ",
		MaxThreads: 5,
		MaxDeep:    2,
	})
	require.NoError(t, err)

	failed := res.Threads[1]
	assert.Len(t, failed.Replies, 5)
	assert.False(t, failed.RepliesComplete)
	assert.NotEmpty(t, failed.ExpandError)

	assert.Len(t, res.Threads[3].Replies, 7)
	assert.True(t, res.Threads[3].RepliesComplete)
	assert.Equal(t, 2, res.Expansion.Attempted)
	assert.Equal(t, 1, res.Expansion.Expanded)
	assert.Equal(t, 1, res.Expansion.Failed)
}

func TestFetchComments_Disabled(t *testing.T) {
	api := newFakeAPI(t, map[string]http.HandlerFunc{
		"commentThreads": func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusForbidden, "commentsDisabled")
		},
	})

	_, err := api.client().FetchComments(context.Background(), CommentQuery{
		VideoID:    "dQw4w9WgXcQ",
		MaxThreads: 5,
	})
	require.ErrorIs(t, err, ErrCommentsDisabled)
}
