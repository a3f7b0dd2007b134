package sources

import (
	"strings"

	"google.golang.org/api/youtube/v3"
)

// Video is the flattened view of a videos.list item.
type Video struct {
	ID              string   `json:"id"`
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	ChannelID       string   `json:"channel_id"`
	ChannelTitle    string   `json:"channel_title"`
	PublishedAt     string   `json:"published_at"`
	Tags            []string `json:"tags,omitempty"`
	CategoryID      string   `json:"category_id,omitempty"`
	DefaultLanguage string   `json:"default_language,omitempty"`
	Duration        string   `json:"duration,omitempty"` // ISO-8601, e.g. PT12M3S
	Definition      string   `json:"definition,omitempty"`
	HasCaptions     bool     `json:"has_captions"`
	LiveContent     string   `json:"live_broadcast_content,omitempty"`
	PrivacyStatus   string   `json:"privacy_status,omitempty"`
	ViewCount       uint64   `json:"view_count"`
	LikeCount       uint64   `json:"like_count"`
	CommentCount    uint64   `json:"comment_count"`
	Thumbnail       string   `json:"thumbnail,omitempty"`
}

// Channel is the flattened view of a channels.list item.
type Channel struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	CustomURL         string `json:"custom_url,omitempty"`
	Country           string `json:"country,omitempty"`
	PublishedAt       string `json:"published_at"`
	SubscriberCount   uint64 `json:"subscriber_count"`
	SubscribersHidden bool   `json:"subscribers_hidden,omitempty"`
	VideoCount        uint64 `json:"video_count"`
	ViewCount         uint64 `json:"view_count"`
	UploadsPlaylistID string `json:"uploads_playlist_id,omitempty"`
	Thumbnail         string `json:"thumbnail,omitempty"`
}

// Playlist is the flattened view of a playlists.list item.
type Playlist struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	ItemCount    int64  `json:"item_count"`
	Privacy      string `json:"privacy_status,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
}

// PlaylistItem is one entry of a playlist.
type PlaylistItem struct {
	Position     int64  `json:"position"`
	VideoID      string `json:"video_id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title,omitempty"` // owner of the video, not the playlist
	PublishedAt  string `json:"published_at,omitempty"`
}

// SearchHit is one search.list result.
type SearchHit struct {
	VideoID      string `json:"video_id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
}

// Category is a video category of a region.
type Category struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Assignable bool   `json:"assignable"`
}

// CaptionTrack is caption metadata from captions.list.
type CaptionTrack struct {
	ID           string `json:"id"`
	Language     string `json:"language"`
	Name         string `json:"name,omitempty"`
	TrackKind    string `json:"track_kind"` // standard, asr, forced
	IsAutoSynced bool   `json:"is_auto_synced"`
	IsCC         bool   `json:"is_cc"`
	LastUpdated  string `json:"last_updated,omitempty"`
}

// Manual reports whether the track was authored rather than speech-recognized.
func (t CaptionTrack) Manual() bool {
	return !strings.EqualFold(t.TrackKind, "asr")
}

// Comment is a top-level comment or reply.
type Comment struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	AuthorID    string `json:"author_channel_id,omitempty"`
	Text        string `json:"text"`
	LikeCount   int64  `json:"like_count"`
	PublishedAt string `json:"published_at"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
}

// CommentThread is a top-level comment with its replies.
type CommentThread struct {
	ID              string    `json:"id"`
	Comment         Comment   `json:"comment"`
	TotalReplies    int       `json:"total_replies"`
	Replies         []Comment `json:"replies"`
	RepliesComplete bool      `json:"replies_complete"`
	ExpandError     string    `json:"expand_error,omitempty"`
}

// WatchURL returns the canonical watch URL of a video ID.
func WatchURL(id string) string { return "https://www.youtube.com/watch?v=" + id }

func channelURL(id string) string { return "https://www.youtube.com/channel/" + id }
func playlistURL(id string) string { return "https://www.youtube.com/playlist?list=" + id }

// bestThumb picks the largest available thumbnail URL.
func bestThumb(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func videoFromAPI(v *youtube.Video) Video {
	out := Video{ID: v.Id, URL: WatchURL(v.Id)}
	if s := v.Snippet; s != nil {
		out.Title = s.Title
		out.Description = s.Description
		out.ChannelID = s.ChannelId
		out.ChannelTitle = s.ChannelTitle
		out.PublishedAt = s.PublishedAt
		out.Tags = s.Tags
		out.CategoryID = s.CategoryId
		out.DefaultLanguage = s.DefaultLanguage
		out.LiveContent = s.LiveBroadcastContent
		out.Thumbnail = bestThumb(s.Thumbnails)
	}
	if d := v.ContentDetails; d != nil {
		out.Duration = d.Duration
		out.Definition = d.Definition
		out.HasCaptions = d.Caption == "true"
	}
	if st := v.Statistics; st != nil {
		out.ViewCount = st.ViewCount
		out.LikeCount = st.LikeCount
		out.CommentCount = st.CommentCount
	}
	if v.Status != nil {
		out.PrivacyStatus = v.Status.PrivacyStatus
	}
	return out
}

func channelFromAPI(c *youtube.Channel) Channel {
	out := Channel{ID: c.Id, URL: channelURL(c.Id)}
	if s := c.Snippet; s != nil {
		out.Title = s.Title
		out.Description = s.Description
		out.CustomURL = s.CustomUrl
		out.Country = s.Country
		out.PublishedAt = s.PublishedAt
		out.Thumbnail = bestThumb(s.Thumbnails)
	}
	if st := c.Statistics; st != nil {
		out.SubscriberCount = st.SubscriberCount
		out.SubscribersHidden = st.HiddenSubscriberCount
		out.VideoCount = st.VideoCount
		out.ViewCount = st.ViewCount
	}
	if cd := c.ContentDetails; cd != nil && cd.RelatedPlaylists != nil {
		out.UploadsPlaylistID = cd.RelatedPlaylists.Uploads
	}
	return out
}

func playlistFromAPI(p *youtube.Playlist) Playlist {
	out := Playlist{ID: p.Id, URL: playlistURL(p.Id)}
	if s := p.Snippet; s != nil {
		out.Title = s.Title
		out.Description = s.Description
		out.ChannelID = s.ChannelId
		out.ChannelTitle = s.ChannelTitle
		out.PublishedAt = s.PublishedAt
		out.Thumbnail = bestThumb(s.Thumbnails)
	}
	if cd := p.ContentDetails; cd != nil {
		out.ItemCount = cd.ItemCount
	}
	if p.Status != nil {
		out.Privacy = p.Status.PrivacyStatus
	}
	return out
}

func playlistItemFromAPI(it *youtube.PlaylistItem) PlaylistItem {
	var out PlaylistItem
	if s := it.Snippet; s != nil {
		out.Position = s.Position
		out.Title = s.Title
		out.ChannelTitle = s.VideoOwnerChannelTitle
		if out.ChannelTitle == "" {
			out.ChannelTitle = s.ChannelTitle
		}
		out.PublishedAt = s.PublishedAt
		if s.ResourceId != nil {
			out.VideoID = s.ResourceId.VideoId
		}
	}
	if cd := it.ContentDetails; cd != nil {
		if out.VideoID == "" {
			out.VideoID = cd.VideoId
		}
		if cd.VideoPublishedAt != "" {
			out.PublishedAt = cd.VideoPublishedAt
		}
	}
	if out.VideoID != "" {
		out.URL = WatchURL(out.VideoID)
	}
	return out
}

func searchHitFromAPI(r *youtube.SearchResult) SearchHit {
	var out SearchHit
	if r.Id != nil {
		out.VideoID = r.Id.VideoId
		out.URL = WatchURL(r.Id.VideoId)
	}
	if s := r.Snippet; s != nil {
		out.Title = s.Title
		out.Description = s.Description
		out.ChannelID = s.ChannelId
		out.ChannelTitle = s.ChannelTitle
		out.PublishedAt = s.PublishedAt
	}
	return out
}

func captionFromAPI(c *youtube.Caption) CaptionTrack {
	out := CaptionTrack{ID: c.Id}
	if s := c.Snippet; s != nil {
		out.Language = s.Language
		out.Name = s.Name
		out.TrackKind = strings.ToLower(s.TrackKind)
		out.IsAutoSynced = s.IsAutoSynced
		out.IsCC = s.IsCC
		out.LastUpdated = s.LastUpdated
	}
	return out
}

func commentFromAPI(c *youtube.Comment) Comment {
	if c == nil {
		return Comment{}
	}
	out := Comment{ID: c.Id}
	if s := c.Snippet; s != nil {
		out.Author = s.AuthorDisplayName
		if s.AuthorChannelId != nil {
			out.AuthorID = s.AuthorChannelId.Value
		}
		out.Text = s.TextDisplay
		if out.Text == "" {
			out.Text = s.TextOriginal
		}
		out.LikeCount = s.LikeCount
		out.PublishedAt = s.PublishedAt
		out.UpdatedAt = s.UpdatedAt
		out.ParentID = s.ParentId
	}
	return out
}
