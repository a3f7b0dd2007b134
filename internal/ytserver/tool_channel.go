package ytserver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/paging"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/engine/ytref"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerChannelDetails(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_channel_details",
		Description: "Get information about a YouTube channel: title, description, custom URL, country, subscriber/video/view counts and the uploads playlist ID. Accepts a channel URL (/channel/, /c/, /@handle, /user/), @handle, channel ID or legacy username. Costs 1-2 quota units.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ChannelInput) (*mcp.CallToolResult, ChannelDetailsOutput, error) {
		ref, err := ytref.ResolveChannel(input.ChannelInput)
		if err != nil {
			return nil, ChannelDetailsOutput{}, fmt.Errorf("could not extract channel identifier: %w", err)
		}
		key := engine.CacheKey("get_channel_details", ref.Form().String(), ref.ID())
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (ChannelDetailsOutput, error) {
			ch, err := yt.GetChannel(ctx, ref)
			return ChannelDetailsOutput{Channel: ch}, err
		})
		if err != nil {
			return nil, ChannelDetailsOutput{}, err
		}
		return nil, out, nil
	})
}

func registerChannelVideos(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_channel_videos",
		Description: "List the most recent videos of a YouTube channel, newest first. max_results 1-50, default 10. Uses search (100 quota units) plus 1-2 units to resolve handles.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ChannelListInput) (*mcp.CallToolResult, ChannelVideosOutput, error) {
		limit := toolutil.Clamp(input.MaxResults, 10, 1, 50)
		id, err := channelID(ctx, yt, input.ChannelInput)
		if err != nil {
			return nil, ChannelVideosOutput{}, err
		}

		key := engine.CacheKey("get_channel_videos", id, strconv.Itoa(limit))
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (ChannelVideosOutput, error) {
			base := paging.PageRequest{
				Kind:   sources.KindSearch,
				Params: map[string]string{"channelId": id, "order": "date"},
			}
			agg, err := paging.Collect(ctx, yt.SearchPages(), base, paging.Budget{Target: limit, PerPage: limit})
			if err != nil {
				return ChannelVideosOutput{}, err
			}
			out := ChannelVideosOutput{
				ChannelID:      id,
				Returned:       len(agg.Items),
				TotalAvailable: agg.TotalAvailable,
				Videos:         agg.Items,
			}
			if out.Videos == nil {
				out.Videos = []sources.SearchHit{}
			}
			return out, nil
		})
		if err != nil {
			return nil, ChannelVideosOutput{}, err
		}
		return nil, out, nil
	})
}

func registerChannelPlaylists(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_channel_playlists",
		Description: "List the public playlists of a YouTube channel. max_results 1-500, default 10; fetched 50 per request at 1 quota unit each.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ChannelListInput) (*mcp.CallToolResult, ChannelPlaylistsOutput, error) {
		limit := toolutil.Clamp(input.MaxResults, 10, 1, 500)
		id, err := channelID(ctx, yt, input.ChannelInput)
		if err != nil {
			return nil, ChannelPlaylistsOutput{}, err
		}

		key := engine.CacheKey("get_channel_playlists", id, strconv.Itoa(limit))
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (ChannelPlaylistsOutput, error) {
			base := paging.PageRequest{Kind: sources.KindPlaylists, Params: map[string]string{"channelId": id}}
			agg, err := paging.Collect(ctx, yt.ChannelPlaylistPages(), base, paging.Budget{Target: limit, PerPage: playlistPageSize})
			if err != nil {
				return ChannelPlaylistsOutput{}, err
			}
			out := ChannelPlaylistsOutput{
				ChannelID:      id,
				Requested:      limit,
				Returned:       len(agg.Items),
				TotalAvailable: agg.TotalAvailable,
				Truncated:      agg.Truncated,
				Playlists:      agg.Items,
			}
			if out.Playlists == nil {
				out.Playlists = []sources.Playlist{}
			}
			return out, nil
		})
		if err != nil {
			return nil, ChannelPlaylistsOutput{}, err
		}
		return nil, out, nil
	})
}
