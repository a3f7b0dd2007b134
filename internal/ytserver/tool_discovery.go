package ytserver

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/paging"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// searchOrders are the orders search.list accepts for videos.
var searchOrders = []string{"relevance", "date", "rating", "viewCount", "title"}

// searchDescriptionLimit caps snippet descriptions in search results.
const searchDescriptionLimit = 150

func registerVideoCategories(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_video_categories",
		Description: "List YouTube video categories for a region (ID, title, whether videos can be assigned to it). Default region US. Costs 1 quota unit.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.RegionInput) (*mcp.CallToolResult, CategoriesOutput, error) {
		region := toolutil.NormRegion(input.RegionCode)
		out, err := toolutil.Cached(ctx, engine.CacheKey("get_video_categories", region), func(ctx context.Context) (CategoriesOutput, error) {
			cats, err := yt.Categories(ctx, region)
			return CategoriesOutput{RegionCode: region, Categories: cats}, err
		})
		if err != nil {
			return nil, CategoriesOutput{}, err
		}
		return nil, out, nil
	})
}

func registerSearchVideos(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_videos",
		Description: "Search YouTube videos by keywords (safe search: moderate). Results include title, channel, publish date, duration, view and like counts. max_results 1-50, default 10. order: relevance (default), date, rating, viewCount, title. Costs 101 quota units.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SearchVideosInput) (*mcp.CallToolResult, SearchVideosOutput, error) {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return nil, SearchVideosOutput{}, errors.New("query is required")
		}
		limit := toolutil.Clamp(input.MaxResults, 10, 1, 50)
		order := toolutil.NormChoice(input.Order, "relevance", searchOrders...)

		key := engine.CacheKey("search_videos", query, order, strconv.Itoa(limit))
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (SearchVideosOutput, error) {
			base := paging.PageRequest{
				Kind:   sources.KindSearch,
				Params: map[string]string{"q": query, "order": order},
			}
			agg, err := paging.Collect(ctx, yt.SearchPages(), base, paging.Budget{Target: limit, PerPage: limit})
			if err != nil {
				return SearchVideosOutput{}, err
			}
			return SearchVideosOutput{
				Query:          query,
				Order:          order,
				Returned:       len(agg.Items),
				TotalAvailable: agg.TotalAvailable,
				Results:        enrichHits(ctx, yt, agg.Items),
			}, nil
		})
		if err != nil {
			return nil, SearchVideosOutput{}, err
		}
		return nil, out, nil
	})
}

// enrichHits adds duration and counts from one videos.list call.
// If that call fails the bare hits are returned.
func enrichHits(ctx context.Context, yt *sources.Client, hits []sources.SearchHit) []SearchResult {
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.VideoID != "" {
			ids = append(ids, h.VideoID)
		}
	}
	details := map[string]sources.Video{}
	if len(ids) > 0 {
		vs, err := yt.GetVideos(ctx, ids...)
		if err != nil {
			slog.Warn("youtube: search enrichment failed", slog.Any("error", err))
		}
		for _, v := range vs {
			details[v.ID] = v
		}
	}

	out := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		r := SearchResult{
			VideoID:      h.VideoID,
			URL:          h.URL,
			Title:        h.Title,
			Description:  engine.TruncateRunes(h.Description, searchDescriptionLimit, "..."),
			ChannelID:    h.ChannelID,
			ChannelTitle: h.ChannelTitle,
			PublishedAt:  h.PublishedAt,
		}
		if v, ok := details[h.VideoID]; ok {
			r.Duration = v.Duration
			r.ViewCount = &v.ViewCount
			r.LikeCount = &v.LikeCount
		}
		out = append(out, r)
	}
	return out
}

func registerTrendingVideos(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_trending_videos",
		Description: "Get the most popular (trending) videos of a region. Default region US; max_results 1-50, default 10. Costs 1 quota unit.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TrendingInput) (*mcp.CallToolResult, TrendingOutput, error) {
		region := toolutil.NormRegion(input.RegionCode)
		limit := toolutil.Clamp(input.MaxResults, 10, 1, 50)

		key := engine.CacheKey("get_trending_videos", region, strconv.Itoa(limit))
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (TrendingOutput, error) {
			vs, err := yt.Trending(ctx, region, limit)
			if vs == nil {
				vs = []sources.Video{}
			}
			return TrendingOutput{RegionCode: region, Videos: vs}, err
		})
		if err != nil {
			return nil, TrendingOutput{}, err
		}
		return nil, out, nil
	})
}
