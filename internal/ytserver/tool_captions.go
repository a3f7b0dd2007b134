package ytserver

import (
	"context"
	"math"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/anatolykoptev/go_youtube/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerCaptionInfo(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_video_caption_info",
		Description: "List the caption tracks of a YouTube video (language, track kind, auto-synced, CC) and select the track in the requested language, falling back to the first track. Metadata only; use get_video_transcript for the text. Costs 51 quota units.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.CaptionInput) (*mcp.CallToolResult, CaptionInfoOutput, error) {
		id, err := videoID(input.VideoInput)
		if err != nil {
			return nil, CaptionInfoOutput{}, err
		}
		lang := toolutil.NormLang(input.Language, "en")

		key := engine.CacheKey("get_video_caption_info", id, lang)
		out, err := toolutil.Cached(ctx, key, func(ctx context.Context) (CaptionInfoOutput, error) {
			tracks, err := yt.Captions(ctx, id)
			if err != nil {
				return CaptionInfoOutput{}, err
			}
			out := CaptionInfoOutput{
				VideoID:            id,
				RequestedLanguage:  lang,
				AvailableLanguages: make([]string, 0, len(tracks)),
				Tracks:             tracks,
			}
			for _, t := range tracks {
				out.AvailableLanguages = append(out.AvailableLanguages, t.Language)
			}
			if sel, found := sources.PickCaption(tracks, lang); len(tracks) > 0 {
				out.Selected = &sel
				out.LanguageFound = found
			}
			if v, ok := videoTitle(ctx, yt, id); ok {
				out.VideoTitle = v.Title
			}
			return out, nil
		})
		if err != nil {
			return nil, CaptionInfoOutput{}, err
		}
		return nil, out, nil
	})
}

func registerTranscript(server *mcp.Server, yt *sources.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_video_transcript",
		Description: "Extract the transcript text of a YouTube video with timed segments (start and duration in seconds), word count and spoken duration. Language preference: requested, then English, then any available track. Read from the public caption tracks; costs 1 quota unit for the video title.",
		Annotations: readOnly,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.CaptionInput) (*mcp.CallToolResult, TranscriptOutput, error) {
		id, err := videoID(input.VideoInput)
		if err != nil {
			return nil, TranscriptOutput{}, err
		}
		if !engine.Cfg.YouTubeTranscriptsEnabled {
			return nil, TranscriptOutput{}, errTranscriptsDisabled
		}
		lang := toolutil.NormLang(input.Language, "en")

		tr, err := track(ctx, "get_video_transcript", func(ctx context.Context) (sources.Transcript, error) {
			return sources.FetchTranscript(ctx, id, lang)
		})
		if err != nil {
			return nil, TranscriptOutput{}, err
		}

		text := tr.Text()
		out := TranscriptOutput{
			VideoID:           id,
			RequestedLanguage: lang,
			Language:          tr.Language,
			AutoGenerated:     tr.Generated,
			Source:            tr.Source,
			SegmentCount:      len(tr.Segments),
			WordCount:         len(strings.Fields(text)),
			DurationMinutes:   spokenMinutes(tr.Segments),
			Text:              text,
			Segments:          tr.Segments,
		}
		if v, ok := videoTitle(ctx, yt, id); ok {
			out.VideoTitle = v.Title
		}
		return nil, out, nil
	})
}

// spokenMinutes is the end of the last segment in minutes, one decimal.
func spokenMinutes(segs []sources.Segment) float64 {
	if len(segs) == 0 {
		return 0
	}
	last := segs[len(segs)-1]
	return math.Round((last.Start+last.Duration)/60*10) / 10
}
