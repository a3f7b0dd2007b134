package engine

// Tool inputs. Every identifier field accepts a raw ID or any supported YouTube URL.

// VideoInput is the input for single-video tools.
type VideoInput struct {
	VideoInput string `json:"video_input" jsonschema:"YouTube video URL (watch, youtu.be, shorts, embed, live) or 11-character video ID"`
}

// PlaylistInput is the input for get_playlist_details.
type PlaylistInput struct {
	PlaylistInput string `json:"playlist_input" jsonschema:"YouTube playlist URL or playlist ID"`
}

// PlaylistItemsInput is the input for get_playlist_items.
type PlaylistItemsInput struct {
	PlaylistInput string `json:"playlist_input" jsonschema:"YouTube playlist URL or playlist ID"`
	MaxResults    int    `json:"max_results,omitempty" jsonschema:"Number of items to return, 1-500 (default: 10). Fetched 50 per request"`
}

// ChannelInput is the input for get_channel_details.
type ChannelInput struct {
	ChannelInput string `json:"channel_input" jsonschema:"Channel URL (/channel/, /c/, /@handle, /user/), @handle, UC... channel ID or legacy username"`
}

// ChannelListInput is the input for get_channel_videos and get_channel_playlists.
type ChannelListInput struct {
	ChannelInput string `json:"channel_input" jsonschema:"Channel URL (/channel/, /c/, /@handle, /user/), @handle, UC... channel ID or legacy username"`
	MaxResults   int    `json:"max_results,omitempty" jsonschema:"Number of results to return (default: 10)"`
}

// RegionInput is the input for get_video_categories.
type RegionInput struct {
	RegionCode string `json:"region_code,omitempty" jsonschema:"ISO 3166-1 alpha-2 region code (default: US)"`
}

// SearchVideosInput is the input for search_videos.
type SearchVideosInput struct {
	Query      string `json:"query" jsonschema:"Search query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Number of results, 1-50 (default: 10)"`
	Order      string `json:"order,omitempty" jsonschema:"Sort order: relevance (default), date, rating, viewCount, title"`
}

// TrendingInput is the input for get_trending_videos.
type TrendingInput struct {
	RegionCode string `json:"region_code,omitempty" jsonschema:"ISO 3166-1 alpha-2 region code (default: US)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Number of results, 1-50 (default: 10)"`
}

// VideoCommentsInput is the input for get_video_comments. The counts are
// pointers so an explicit 0 can be told apart from an omitted field.
type VideoCommentsInput struct {
	VideoInput          string `json:"video_input" jsonschema:"YouTube video URL or 11-character video ID"`
	MaxTopLevelComments *int   `json:"max_top_level_comments,omitempty" jsonschema:"Total number of top-level comments to return, must be positive (default: 50). Costs 1 quota unit per 100 comments"`
	Order               string `json:"order,omitempty" jsonschema:"Sort order: relevance (default) or time"`
	MaxDeepRepliesCount *int   `json:"max_deep_replies_count,omitempty" jsonschema:"Fetch the complete reply list for up to this many threads that have more replies than the 5 returned inline. 0 disables (default: 10). Costs at least 1 quota unit per thread"`
}

// CaptionInput is the input for get_video_caption_info and get_video_transcript.
type CaptionInput struct {
	VideoInput string `json:"video_input" jsonschema:"YouTube video URL or 11-character video ID"`
	Language   string `json:"language,omitempty" jsonschema:"Preferred caption language code (default: en)"`
}

// QuotaInput is the (empty) input for get_quota_usage.
type QuotaInput struct{}
