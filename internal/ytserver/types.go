package ytserver

import (
	"github.com/anatolykoptev/go_youtube/internal/engine/insights"
	"github.com/anatolykoptev/go_youtube/internal/engine/paging"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
)

// Tool outputs. List outputs carry Returned plus the upstream total when known.

// VideoDetailsOutput is returned by get_video_details.
type VideoDetailsOutput struct {
	Video           sources.Video `json:"video"`
	DurationSeconds *int64        `json:"duration_seconds,omitempty"`
	DurationText    string        `json:"duration_text,omitempty"`
}

// PlaylistDetailsOutput is returned by get_playlist_details.
type PlaylistDetailsOutput struct {
	Playlist sources.Playlist `json:"playlist"`
}

// PlaylistItemsOutput is returned by get_playlist_items.
type PlaylistItemsOutput struct {
	PlaylistID     string                 `json:"playlist_id"`
	PlaylistTitle  string                 `json:"playlist_title,omitempty"`
	Requested      int                    `json:"requested"`
	Returned       int                    `json:"returned"`
	TotalAvailable *int64                 `json:"total_available,omitempty"`
	Truncated      bool                   `json:"truncated"`
	Items          []sources.PlaylistItem `json:"items"`
}

// ChannelDetailsOutput is returned by get_channel_details.
type ChannelDetailsOutput struct {
	Channel sources.Channel `json:"channel"`
}

// ChannelVideosOutput is returned by get_channel_videos.
type ChannelVideosOutput struct {
	ChannelID      string              `json:"channel_id"`
	Returned       int                 `json:"returned"`
	TotalAvailable *int64              `json:"total_available,omitempty"`
	Videos         []sources.SearchHit `json:"videos"`
}

// ChannelPlaylistsOutput is returned by get_channel_playlists.
type ChannelPlaylistsOutput struct {
	ChannelID      string             `json:"channel_id"`
	Requested      int                `json:"requested"`
	Returned       int                `json:"returned"`
	TotalAvailable *int64             `json:"total_available,omitempty"`
	Truncated      bool               `json:"truncated"`
	Playlists      []sources.Playlist `json:"playlists"`
}

// CategoriesOutput is returned by get_video_categories.
type CategoriesOutput struct {
	RegionCode string             `json:"region_code"`
	Categories []sources.Category `json:"categories"`
}

// SearchResult is a search hit enriched with videos.list statistics.
type SearchResult struct {
	VideoID      string  `json:"video_id"`
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	ChannelID    string  `json:"channel_id"`
	ChannelTitle string  `json:"channel_title"`
	PublishedAt  string  `json:"published_at"`
	Duration     string  `json:"duration,omitempty"`
	ViewCount    *uint64 `json:"view_count,omitempty"`
	LikeCount    *uint64 `json:"like_count,omitempty"`
}

// SearchVideosOutput is returned by search_videos.
type SearchVideosOutput struct {
	Query          string         `json:"query"`
	Order          string         `json:"order"`
	Returned       int            `json:"returned"`
	TotalAvailable *int64         `json:"total_available,omitempty"`
	Results        []SearchResult `json:"results"`
}

// TrendingOutput is returned by get_trending_videos.
type TrendingOutput struct {
	RegionCode string          `json:"region_code"`
	Videos     []sources.Video `json:"videos"`
}

// CommentsOutput is returned by get_video_comments.
type CommentsOutput struct {
	VideoID          string                  `json:"video_id"`
	VideoTitle       string                  `json:"video_title,omitempty"`
	CommentCount     *uint64                 `json:"video_comment_count,omitempty"`
	Order            string                  `json:"order"`
	Requested        int                     `json:"requested"`
	Returned         int                     `json:"returned"`
	TotalAvailable   *int64                  `json:"total_available,omitempty"`
	Truncated        bool                    `json:"truncated"`
	PageFetches      int                     `json:"page_fetches"`
	DeepExpansion    paging.ExpansionReport  `json:"deep_expansion"`
	CommentsDisabled bool                    `json:"comments_disabled,omitempty"`
	Message          string                  `json:"message,omitempty"`
	Threads          []sources.CommentThread `json:"threads"`
}

// EngagementOutput is returned by analyze_video_engagement.
type EngagementOutput struct {
	VideoID      string              `json:"video_id"`
	URL          string              `json:"url"`
	Title        string              `json:"title"`
	ChannelTitle string              `json:"channel_title"`
	PublishedAt  string              `json:"published_at"`
	Duration     string              `json:"duration,omitempty"`
	Views        uint64              `json:"view_count"`
	Likes        uint64              `json:"like_count"`
	Comments     uint64              `json:"comment_count"`
	Engagement   insights.Engagement `json:"engagement"`
}

// CaptionInfoOutput is returned by get_video_caption_info.
type CaptionInfoOutput struct {
	VideoID            string                 `json:"video_id"`
	VideoTitle         string                 `json:"video_title,omitempty"`
	RequestedLanguage  string                 `json:"requested_language"`
	LanguageFound      bool                   `json:"requested_language_found"`
	Selected           *sources.CaptionTrack  `json:"selected,omitempty"`
	AvailableLanguages []string               `json:"available_languages"`
	Tracks             []sources.CaptionTrack `json:"tracks"`
}

// KnowledgeBaseOutput is returned by evaluate_video_for_knowledge_base.
type KnowledgeBaseOutput struct {
	VideoID      string                `json:"video_id"`
	URL          string                `json:"url"`
	Title        string                `json:"title"`
	ChannelTitle string                `json:"channel_title"`
	Views        uint64                `json:"view_count"`
	HasCaptions  bool                  `json:"has_captions"`
	Manual       bool                  `json:"manual_captions"`
	Evaluation   insights.KBEvaluation `json:"evaluation"`
}

// TranscriptOutput is returned by get_video_transcript.
type TranscriptOutput struct {
	VideoID           string            `json:"video_id"`
	VideoTitle        string            `json:"video_title,omitempty"`
	RequestedLanguage string            `json:"requested_language"`
	Language          string            `json:"language"`
	AutoGenerated     bool              `json:"auto_generated"`
	Source            string            `json:"source"`
	SegmentCount      int               `json:"segment_count"`
	WordCount         int               `json:"word_count"`
	DurationMinutes   float64           `json:"duration_minutes"`
	Text              string            `json:"text"`
	Segments          []sources.Segment `json:"segments"`
}
