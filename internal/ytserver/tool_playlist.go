package ytserver

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/paging"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// playlistPageSize is the playlistItems.list and playlists.list maximum.
const playlistPageSize = 50

func registerPlaylistDetails(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_playlist_details",
		Description: "Get information about a YouTube playlist: title, description, owner channel, item count, privacy status. Accepts a playlist URL or ID. Costs 1 quota unit.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlaylistInput) (*mcp.CallToolResult, PlaylistDetailsOutput, error) {
		id, err := playlistID(input.PlaylistInput)
		if err != nil {
			return nil, PlaylistDetailsOutput{}, err
		}
		out, err := toolutil.Cached(ctx, engine.CacheKey("get_playlist_details", id), func(ctx context.Context) (PlaylistDetailsOutput, error) {
			p, err := yt.GetPlaylist(ctx, id)
			return PlaylistDetailsOutput{Playlist: p}, err
		})
		if err != nil {
			return nil, PlaylistDetailsOutput{}, err
		}
		return nil, out, nil
	})
}

func registerPlaylistItems(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_playlist_items",
		Description: "List the videos in a YouTube playlist in playlist order (position, video ID, title, owner channel, URL). max_results 1-500, default 10; items are fetched 50 per request at 1 quota unit each.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlaylistItemsInput) (*mcp.CallToolResult, PlaylistItemsOutput, error) {
		id, err := playlistID(input.PlaylistInput)
		if err != nil {
			return nil, PlaylistItemsOutput{}, err
		}
		limit := toolutil.Clamp(input.MaxResults, 10, 1, 500)

		key := engine.CacheKey("get_playlist_items", id, strconv.Itoa(limit))
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (PlaylistItemsOutput, error) {
			base := paging.PageRequest{Kind: sources.KindPlaylistItems, Params: map[string]string{"playlistId": id}}
			agg, err := paging.Collect(ctx, yt.PlaylistItemPages(), base, paging.Budget{Target: limit, PerPage: playlistPageSize})
			if err != nil {
				return PlaylistItemsOutput{}, err
			}
			out := PlaylistItemsOutput{
				PlaylistID:     id,
				Requested:      limit,
				Returned:       len(agg.Items),
				TotalAvailable: agg.TotalAvailable,
				Truncated:      agg.Truncated,
				Items:          agg.Items,
			}
			if out.Items == nil {
				out.Items = []sources.PlaylistItem{}
			}
			if p, err := yt.GetPlaylist(ctx, id); err == nil {
				out.PlaylistTitle = p.Title
			} else {
				slog.Debug("youtube: playlist title lookup failed", slog.String("id", id), slog.Any("error", err))
			}
			return out, nil
		})
		if err != nil {
			return nil, PlaylistItemsOutput{}, err
		}
		return nil, out, nil
	})
}
