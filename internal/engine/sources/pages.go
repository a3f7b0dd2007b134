package sources

import (
	"context"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/paging"
	"google.golang.org/api/youtube/v3"
)

// Page kinds and their filter parameters.
const (
	KindCommentThreads = "commentThreads" // videoId, order
	KindComments       = "comments"       // parentId
	KindPlaylistItems  = "playlistItems"  // playlistId
	KindPlaylists      = "playlists"      // channelId
	KindSearch         = "search"         // q, channelId, order
)

func totalOf(pi *youtube.PageInfo) *int64 {
	if pi == nil {
		return nil
	}
	t := pi.TotalResults
	return &t
}

// mapItems converts one page of API items and counts the fetch.
func mapItems[A, T any](items []A, next string, pi *youtube.PageInfo, conv func(A) T) paging.PageResult[T] {
	engine.IncrPagesFetched()
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, conv(it))
	}
	return paging.PageResult[T]{Items: out, NextPageToken: next, TotalResults: totalOf(pi)}
}

// CommentThreadPages pages through top-level comments of a video, replies inlined.
func (c *Client) CommentThreadPages() paging.FetchFunc[*youtube.CommentThread] {
	return func(ctx context.Context, req paging.PageRequest) (paging.PageResult[*youtube.CommentThread], error) {
		resp, err := doCall(ctx, c, KindCommentThreads, func(ctx context.Context) (*youtube.CommentThreadListResponse, error) {
			call := c.svc.CommentThreads.List([]string{"snippet", "replies"}).
				VideoId(req.Params["videoId"]).
				MaxResults(int64(req.PageSize)).
				TextFormat("plainText")
			if o := req.Params["order"]; o != "" {
				call = call.Order(o)
			}
			if req.PageToken != "" {
				call = call.PageToken(req.PageToken)
			}
			return call.Context(ctx).Do()
		})
		if err != nil {
			return paging.PageResult[*youtube.CommentThread]{}, err
		}
		return mapItems(resp.Items, resp.NextPageToken, resp.PageInfo, func(t *youtube.CommentThread) *youtube.CommentThread { return t }), nil
	}
}

// ReplyPages pages through all replies of one top-level comment.
func (c *Client) ReplyPages() paging.FetchFunc[Comment] {
	return func(ctx context.Context, req paging.PageRequest) (paging.PageResult[Comment], error) {
		resp, err := doCall(ctx, c, KindComments, func(ctx context.Context) (*youtube.CommentListResponse, error) {
			call := c.svc.Comments.List([]string{"snippet"}).
				ParentId(req.Params["parentId"]).
				MaxResults(int64(req.PageSize)).
				TextFormat("plainText")
			if req.PageToken != "" {
				call = call.PageToken(req.PageToken)
			}
			return call.Context(ctx).Do()
		})
		if err != nil {
			return paging.PageResult[Comment]{}, err
		}
		return mapItems(resp.Items, resp.NextPageToken, resp.PageInfo, commentFromAPI), nil
	}
}

// PlaylistItemPages pages through the entries of a playlist.
func (c *Client) PlaylistItemPages() paging.FetchFunc[PlaylistItem] {
	return func(ctx context.Context, req paging.PageRequest) (paging.PageResult[PlaylistItem], error) {
		resp, err := doCall(ctx, c, KindPlaylistItems, func(ctx context.Context) (*youtube.PlaylistItemListResponse, error) {
			call := c.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(req.Params["playlistId"]).
				MaxResults(int64(req.PageSize))
			if req.PageToken != "" {
				call = call.PageToken(req.PageToken)
			}
			return call.Context(ctx).Do()
		})
		if err != nil {
			return paging.PageResult[PlaylistItem]{}, err
		}
		return mapItems(resp.Items, resp.NextPageToken, resp.PageInfo, playlistItemFromAPI), nil
	}
}

// ChannelPlaylistPages pages through the public playlists of a channel.
func (c *Client) ChannelPlaylistPages() paging.FetchFunc[Playlist] {
	return func(ctx context.Context, req paging.PageRequest) (paging.PageResult[Playlist], error) {
		resp, err := doCall(ctx, c, KindPlaylists, func(ctx context.Context) (*youtube.PlaylistListResponse, error) {
			call := c.svc.Playlists.List([]string{"snippet", "contentDetails"}).
				ChannelId(req.Params["channelId"]).
				MaxResults(int64(req.PageSize))
			if req.PageToken != "" {
				call = call.PageToken(req.PageToken)
			}
			return call.Context(ctx).Do()
		})
		if err != nil {
			return paging.PageResult[Playlist]{}, err
		}
		return mapItems(resp.Items, resp.NextPageToken, resp.PageInfo, playlistFromAPI), nil
	}
}

// SearchPages pages through video search results. Either q or channelId must be set.
func (c *Client) SearchPages() paging.FetchFunc[SearchHit] {
	return func(ctx context.Context, req paging.PageRequest) (paging.PageResult[SearchHit], error) {
		resp, err := doCall(ctx, c, KindSearch, func(ctx context.Context) (*youtube.SearchListResponse, error) {
			call := c.svc.Search.List([]string{"id", "snippet"}).
				Type("video").
				MaxResults(int64(req.PageSize))
			if q := req.Params["q"]; q != "" {
				call = call.Q(q).SafeSearch("moderate")
			}
			if ch := req.Params["channelId"]; ch != "" {
				call = call.ChannelId(ch)
			}
			if o := req.Params["order"]; o != "" {
				call = call.Order(o)
			}
			if req.PageToken != "" {
				call = call.PageToken(req.PageToken)
			}
			return call.Context(ctx).Do()
		})
		if err != nil {
			return paging.PageResult[SearchHit]{}, err
		}
		return mapItems(resp.Items, resp.NextPageToken, resp.PageInfo, searchHitFromAPI), nil
	}
}
