// Package ytserver registers the YouTube MCP tools and resources.
package ytserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/engine/ytref"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolNames lists every registered tool in registration order.
var ToolNames = []string{
	"get_video_details",
	"get_playlist_details",
	"get_playlist_items",
	"get_channel_details",
	"get_video_categories",
	"get_channel_videos",
	"search_videos",
	"get_trending_videos",
	"get_video_comments",
	"analyze_video_engagement",
	"get_channel_playlists",
	"get_video_caption_info",
	"evaluate_video_for_knowledge_base",
	"get_video_transcript",
	"get_quota_usage",
}

// now is the clock used by the assessment tools.
var now = time.Now

// RegisterTools registers all YouTube tools on the given MCP server.
func RegisterTools(server *mcp.Server, yt *sources.Client) {
	registerVideoDetails(server, yt)
	registerPlaylistDetails(server, yt)
	registerPlaylistItems(server, yt)
	registerChannelDetails(server, yt)
	registerVideoCategories(server, yt)
	registerChannelVideos(server, yt)
	registerSearchVideos(server, yt)
	registerTrendingVideos(server, yt)
	registerVideoComments(server, yt)
	registerVideoEngagement(server, yt)
	registerChannelPlaylists(server, yt)
	registerCaptionInfo(server, yt)
	registerKnowledgeBase(server, yt)
	registerTranscript(server, yt)
	registerQuotaUsage(server)
}

var readOnly = &mcp.ToolAnnotations{ReadOnlyHint: true}

// errTranscriptsDisabled is returned by get_video_transcript when YOUTUBE_TRANSCRIPTS=off.
var errTranscriptsDisabled = errors.New("transcript extraction is disabled on this server")

func videoID(raw string) (string, error) {
	ref, err := ytref.ResolveVideo(raw)
	if err != nil {
		return "", fmt.Errorf("could not extract video ID: %w", err)
	}
	return ref.ID(), nil
}

func playlistID(raw string) (string, error) {
	ref, err := ytref.ResolvePlaylist(raw)
	if err != nil {
		return "", fmt.Errorf("could not extract playlist ID: %w", err)
	}
	return ref.ID(), nil
}

// channelID parses raw and resolves handles, custom names and usernames upstream.
func channelID(ctx context.Context, yt *sources.Client, raw string) (string, error) {
	ref, err := ytref.ResolveChannel(raw)
	if err != nil {
		return "", fmt.Errorf("could not extract channel identifier: %w", err)
	}
	id, err := yt.ResolveChannelID(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve channel %s: %w", ref, err)
	}
	return id, nil
}

// videoTitle fetches the title for context; failures are logged and ignored.
func videoTitle(ctx context.Context, yt *sources.Client, id string) (sources.Video, bool) {
	v, err := yt.GetVideo(ctx, id)
	if err != nil {
		slog.Debug("youtube: video context lookup failed", slog.String("id", id), slog.Any("error", err))
		return sources.Video{}, false
	}
	return v, true
}

// track runs a handler body under engine.TrackOperation so slow tools are logged.
func track[Out any](ctx context.Context, name string, fn func(context.Context) (Out, error)) (Out, error) {
	var out Out
	err := engine.TrackOperation(ctx, name, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}
