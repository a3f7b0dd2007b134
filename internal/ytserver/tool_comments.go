package ytserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultTopLevelComments = 50
	defaultDeepReplies      = 10
)

// commentParams validates the comment budgets. Omitted values take the defaults.
func commentParams(in engine.VideoCommentsInput) (threads, deep int, err error) {
	threads, deep = defaultTopLevelComments, defaultDeepReplies
	if in.MaxTopLevelComments != nil {
		threads = *in.MaxTopLevelComments
	}
	if in.MaxDeepRepliesCount != nil {
		deep = *in.MaxDeepRepliesCount
	}
	if threads <= 0 {
		return 0, 0, fmt.Errorf("max_top_level_comments must be a positive integer, got %d", threads)
	}
	if deep < 0 {
		return 0, 0, fmt.Errorf("max_deep_replies_count must be a non-negative integer, got %d", deep)
	}
	return threads, deep, nil
}

func registerVideoComments(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "get_video_comments",
		Description: "Get top-level comments of a YouTube video with their replies. Up to 5 replies per thread come inline; " +
			"for the first max_deep_replies_count threads that have more, the complete reply list is fetched. " +
			"max_top_level_comments > 0 (default 50, fetched 100 per request); order: relevance (default) or time; " +
			"max_deep_replies_count >= 0 (default 10, 0 disables). " +
			"Cost: 1 quota unit per 100 top-level comments plus at least 1 unit per expanded thread.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoCommentsInput) (*mcp.CallToolResult, CommentsOutput, error) {
		threads, deep, err := commentParams(input)
		if err != nil {
			return nil, CommentsOutput{}, err
		}
		id, err := videoID(input.VideoInput)
		if err != nil {
			return nil, CommentsOutput{}, err
		}
		order := toolutil.NormChoice(input.Order, "relevance", "relevance", "time")

		out := CommentsOutput{
			VideoID:   id,
			Order:     order,
			Requested: threads,
			Threads:   []sources.CommentThread{},
		}
		if v, ok := videoTitle(ctx, yt, id); ok {
			out.VideoTitle = v.Title
			out.CommentCount = &v.CommentCount
		}

		res, err := track(ctx, "get_video_comments", func(ctx context.Context) (sources.CommentResult, error) {
			return yt.FetchComments(ctx, sources.CommentQuery{
				VideoID:    id,
				Order:      order,
				MaxThreads: threads,
				MaxDeep:    deep,
			})
		})
		if errors.Is(err, sources.ErrCommentsDisabled) {
			out.CommentsDisabled = true
			out.Message = "Comments are disabled for this video."
			return nil, out, nil
		}
		if err != nil {
			return nil, CommentsOutput{}, err
		}

		out.Returned = len(res.Threads)
		out.TotalAvailable = res.TotalAvailable
		out.Truncated = res.Truncated
		out.PageFetches = res.Fetches
		out.DeepExpansion = res.Expansion
		if len(res.Threads) > 0 {
			out.Threads = res.Threads
		}
		if res.Expansion.Failed > 0 {
			slog.Warn("get_video_comments: some reply lists are incomplete",
				slog.String("video", id), slog.Int("failed", res.Expansion.Failed))
		}
		return nil, out, nil
	})
}
