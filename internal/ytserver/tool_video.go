package ytserver

import (
	"context"
	"slices"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/insights"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerVideoDetails(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_video_details",
		Description: "Get detailed information about a YouTube video: title, channel, publish date, duration, view/like/comment counts, tags, category and caption availability. Accepts a video URL or ID. Costs 1 quota unit.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoInput) (*mcp.CallToolResult, VideoDetailsOutput, error) {
		id, err := videoID(input.VideoInput)
		if err != nil {
			return nil, VideoDetailsOutput{}, err
		}

		out, err := toolutil.Cached(ctx, engine.CacheKey("get_video_details", id), func(ctx context.Context) (VideoDetailsOutput, error) {
			v, err := yt.GetVideo(ctx, id)
			if err != nil {
				return VideoDetailsOutput{}, err
			}
			out := VideoDetailsOutput{Video: v}
			if d, err := insights.ParseDuration(v.Duration); err == nil {
				secs := int64(d.Seconds())
				out.DurationSeconds = &secs
				out.DurationText = insights.FormatDuration(d)
			}
			return out, nil
		})
		if err != nil {
			return nil, VideoDetailsOutput{}, err
		}
		return nil, out, nil
	})
}

func registerVideoEngagement(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_video_engagement",
		Description: "Analyze engagement of a YouTube video: like rate, comment rate and total engagement rate (percent of views), an engagement tier (exceptional >=8%, excellent >=4%, good >=2%, average >=1%, below_average), video age, views per day and insight codes. Costs 1 quota unit.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoInput) (*mcp.CallToolResult, EngagementOutput, error) {
		id, err := videoID(input.VideoInput)
		if err != nil {
			return nil, EngagementOutput{}, err
		}

		out, err := track(ctx, "analyze_video_engagement", func(ctx context.Context) (EngagementOutput, error) {
			v, err := yt.GetVideo(ctx, id)
			if err != nil {
				return EngagementOutput{}, err
			}
			return EngagementOutput{
				VideoID:      v.ID,
				URL:          v.URL,
				Title:        v.Title,
				ChannelTitle: v.ChannelTitle,
				PublishedAt:  v.PublishedAt,
				Duration:     v.Duration,
				Views:        v.ViewCount,
				Likes:        v.LikeCount,
				Comments:     v.CommentCount,
				Engagement: insights.AnalyzeEngagement(insights.Stats{
					Views:       v.ViewCount,
					Likes:       v.LikeCount,
					Comments:    v.CommentCount,
					PublishedAt: v.PublishedAt,
				}, now()),
			}, nil
		})
		if err != nil {
			return nil, EngagementOutput{}, err
		}
		return nil, out, nil
	})
}

func registerKnowledgeBase(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_video_for_knowledge_base",
		Description: "Evaluate from metadata alone whether a YouTube video is worth adding to a knowledge base. Scores content type (from the title), freshness (with extra weight for fast-moving tech topics), popularity, manual captions and length, and returns highly_recommended (>=4), moderately_recommended (>=2) or limited. Costs 51 quota units (video + captions).",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoInput) (*mcp.CallToolResult, KnowledgeBaseOutput, error) {
		id, err := videoID(input.VideoInput)
		if err != nil {
			return nil, KnowledgeBaseOutput{}, err
		}

		out, err := track(ctx, "evaluate_video_for_knowledge_base", func(ctx context.Context) (KnowledgeBaseOutput, error) {
			v, err := yt.GetVideo(ctx, id)
			if err != nil {
				return KnowledgeBaseOutput{}, err
			}
			tracks, err := yt.Captions(ctx, id)
			if err != nil {
				return KnowledgeBaseOutput{}, err
			}
			manual := slices.ContainsFunc(tracks, sources.CaptionTrack.Manual)

			in := insights.KBInput{
				Title:       v.Title,
				Views:       v.ViewCount,
				PublishedAt: v.PublishedAt,
				Duration:    v.Duration,
				HasCaptions: len(tracks) > 0,
				Manual:      manual,
			}
			return KnowledgeBaseOutput{
				VideoID:      v.ID,
				URL:          v.URL,
				Title:        v.Title,
				ChannelTitle: v.ChannelTitle,
				Views:        v.ViewCount,
				HasCaptions:  in.HasCaptions,
				Manual:       manual,
				Evaluation:   insights.EvaluateForKnowledgeBase(in, now()),
			}, nil
		})
		if err != nil {
			return nil, KnowledgeBaseOutput{}, err
		}
		return nil, out, nil
	})
}
