package sources

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/ytref"
	"google.golang.org/api/youtube/v3"
)

// channelParts is requested for both lookups and details so a lookup result can be reused.
var channelParts = []string{"snippet", "statistics", "contentDetails"}

// channelQuery selects channels by one filter.
type channelQuery func(*youtube.ChannelsListCall) *youtube.ChannelsListCall

func byID(id string) channelQuery {
	return func(c *youtube.ChannelsListCall) *youtube.ChannelsListCall { return c.Id(id) }
}

func byHandle(h string) channelQuery {
	return func(c *youtube.ChannelsListCall) *youtube.ChannelsListCall { return c.ForHandle(h) }
}

func byUsername(u string) channelQuery {
	return func(c *youtube.ChannelsListCall) *youtube.ChannelsListCall { return c.ForUsername(u) }
}

func (c *Client) listChannel(ctx context.Context, q channelQuery) (*youtube.Channel, error) {
	resp, err := doCall(ctx, c, "channels", func(ctx context.Context) (*youtube.ChannelListResponse, error) {
		return q(c.svc.Channels.List(channelParts)).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	return resp.Items[0], nil
}

// lookupOrder lists the filters tried for a channel reference, most likely first.
func lookupOrder(ref ytref.ChannelRef) []channelQuery {
	name := ref.ID()
	switch ref.Form() {
	case ytref.FormID:
		return []channelQuery{byID(name)}
	case ytref.FormHandle:
		return []channelQuery{byHandle(name), byUsername(name)}
	default:
		return []channelQuery{byUsername(name), byHandle(name)}
	}
}

// findChannel runs the lookup chain and memoizes the resolved ID.
func (c *Client) findChannel(ctx context.Context, ref ytref.ChannelRef) (*youtube.Channel, error) {
	engine.IncrChannelLookups()
	for _, q := range lookupOrder(ref) {
		ch, err := c.listChannel(ctx, q)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			if ref.NeedsLookup() {
				c.channels.Add(cacheKeyFor(ref), ch.Id)
			}
			return ch, nil
		}
	}
	return nil, notFound("channels", "channel", ref.String())
}

func cacheKeyFor(ref ytref.ChannelRef) string {
	return ref.Form().String() + ":" + ref.ID()
}

// ResolveChannelID turns any channel reference into a UC... channel ID.
// IDs are returned as-is without a network call.
func (c *Client) ResolveChannelID(ctx context.Context, ref ytref.ChannelRef) (string, error) {
	if !ref.NeedsLookup() {
		return ref.ID(), nil
	}
	if id, ok := c.channels.Get(cacheKeyFor(ref)); ok {
		return id, nil
	}
	ch, err := c.findChannel(ctx, ref)
	if err != nil {
		return "", err
	}
	slog.Debug("youtube: channel resolved", slog.String("ref", ref.String()), slog.String("id", ch.Id))
	return ch.Id, nil
}

// GetChannel fetches channel details for any channel reference.
func (c *Client) GetChannel(ctx context.Context, ref ytref.ChannelRef) (Channel, error) {
	if id, ok := c.channels.Get(cacheKeyFor(ref)); ok && ref.NeedsLookup() {
		if canonical, err := ytref.NewChannelID(id); err == nil {
			ref = canonical
		}
	}
	ch, err := c.findChannel(ctx, ref)
	if err != nil {
		return Channel{}, err
	}
	return channelFromAPI(ch), nil
}

// IsNotFound reports whether err is a classified not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
