package sources

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/youtube/v3"
)

// notFound builds the classified error for an empty lookup result.
func notFound(endpoint, what, id string) error {
	return &APIError{
		Endpoint: endpoint,
		Status:   http.StatusNotFound,
		Kind:     ErrNotFound,
		Err:      fmt.Errorf("%s %q not found or not accessible", what, id),
	}
}

// GetVideos fetches up to 50 videos by ID in one call. Unknown IDs are skipped.
func (c *Client) GetVideos(ctx context.Context, ids ...string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resp, err := doCall(ctx, c, "videos", func(ctx context.Context) (*youtube.VideoListResponse, error) {
		return c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails", "status"}).
			Id(ids...).
			Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	out := make([]Video, 0, len(resp.Items))
	for _, v := range resp.Items {
		out = append(out, videoFromAPI(v))
	}
	return out, nil
}

// GetVideo fetches a single video.
func (c *Client) GetVideo(ctx context.Context, id string) (Video, error) {
	vs, err := c.GetVideos(ctx, id)
	if err != nil {
		return Video{}, err
	}
	if len(vs) == 0 {
		return Video{}, notFound("videos", "video", id)
	}
	return vs[0], nil
}

// Trending returns the mostPopular chart of a region.
func (c *Client) Trending(ctx context.Context, region string, limit int) ([]Video, error) {
	resp, err := doCall(ctx, c, "videos", func(ctx context.Context) (*youtube.VideoListResponse, error) {
		return c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Chart("mostPopular").
			RegionCode(region).
			MaxResults(int64(limit)).
			Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	out := make([]Video, 0, len(resp.Items))
	for _, v := range resp.Items {
		out = append(out, videoFromAPI(v))
	}
	return out, nil
}

// Categories lists the video categories of a region.
func (c *Client) Categories(ctx context.Context, region string) ([]Category, error) {
	resp, err := doCall(ctx, c, "videoCategories", func(ctx context.Context) (*youtube.VideoCategoryListResponse, error) {
		return c.svc.VideoCategories.List([]string{"snippet"}).
			RegionCode(region).
			Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(resp.Items))
	for _, vc := range resp.Items {
		cat := Category{ID: vc.Id}
		if vc.Snippet != nil {
			cat.Title = vc.Snippet.Title
			cat.Assignable = vc.Snippet.Assignable
		}
		out = append(out, cat)
	}
	return out, nil
}

// Captions lists caption track metadata of a video. Costs 50 units.
func (c *Client) Captions(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	resp, err := doCall(ctx, c, "captions", func(ctx context.Context) (*youtube.CaptionListResponse, error) {
		return c.svc.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	out := make([]CaptionTrack, 0, len(resp.Items))
	for _, cp := range resp.Items {
		out = append(out, captionFromAPI(cp))
	}
	return out, nil
}

// PickCaption returns the track in lang, else the first track.
// The bool is false when lang was not available.
func PickCaption(tracks []CaptionTrack, lang string) (CaptionTrack, bool) {
	for _, t := range tracks {
		if t.Language == lang {
			return t, true
		}
	}
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	return tracks[0], false
}

// GetPlaylist fetches playlist metadata.
func (c *Client) GetPlaylist(ctx context.Context, id string) (Playlist, error) {
	resp, err := doCall(ctx, c, "playlists", func(ctx context.Context) (*youtube.PlaylistListResponse, error) {
		return c.svc.Playlists.List([]string{"snippet", "contentDetails", "status"}).
			Id(id).
			Context(ctx).Do()
	})
	if err != nil {
		return Playlist{}, err
	}
	if len(resp.Items) == 0 {
		return Playlist{}, notFound("playlists", "playlist", id)
	}
	return playlistFromAPI(resp.Items[0]), nil
}
