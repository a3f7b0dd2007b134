// Package ytref turns user-supplied YouTube references (raw IDs, short links,
// watch/playlist/channel URLs, @handles) into canonical resource identifiers.
//
// Resolution is pure: no network calls. Channel handles, custom names and
// legacy usernames come back as ChannelRef values with a non-ID form; turning
// those into a UC... channel ID is the caller's job (see sources.ResolveChannelID).
package ytref

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidIdentifier is returned when an input cannot be parsed into a reference.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Kind is the resource kind of a reference.
type Kind int

const (
	KindVideo Kind = iota + 1
	KindPlaylist
	KindChannel
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindPlaylist:
		return "playlist"
	case KindChannel:
		return "channel"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ChannelForm tells how a channel was named in the input.
type ChannelForm int

const (
	FormID       ChannelForm = iota + 1 // UC + 22 chars, usable as-is
	FormHandle                          // @name
	FormCustom                          // /c/name
	FormUsername                        // /user/name or a bare legacy name
)

func (f ChannelForm) String() string {
	switch f {
	case FormID:
		return "id"
	case FormHandle:
		return "handle"
	case FormCustom:
		return "custom"
	case FormUsername:
		return "username"
	}
	return fmt.Sprintf("form(%d)", int(f))
}

// Ref is a resolved reference. The concrete type is one of VideoRef,
// PlaylistRef or ChannelRef.
type Ref interface {
	Kind() Kind
	ID() string
	isRef()
}

// VideoRef holds an 11-character video ID.
type VideoRef struct{ id string }

func (VideoRef) Kind() Kind { return KindVideo }
func (r VideoRef) ID() string { return r.id }
func (VideoRef) isRef() {}

// URL returns the canonical watch URL.
func (r VideoRef) URL() string { return "https://www.youtube.com/watch?v=" + r.id }

// PlaylistRef holds an opaque playlist ID.
type PlaylistRef struct{ id string }

func (PlaylistRef) Kind() Kind { return KindPlaylist }
func (r PlaylistRef) ID() string { return r.id }
func (PlaylistRef) isRef() {}

// URL returns the canonical playlist URL.
func (r PlaylistRef) URL() string { return "https://www.youtube.com/playlist?list=" + r.id }

// ChannelRef holds a channel ID, handle, custom name or username.
// Only FormID values are canonical channel IDs.
type ChannelRef struct {
	id   string
	form ChannelForm
}

func (ChannelRef) Kind() Kind { return KindChannel }
func (r ChannelRef) ID() string { return r.id }
func (ChannelRef) isRef() {}
func (r ChannelRef) Form() ChannelForm { return r.form }

// NeedsLookup reports whether the reference must be resolved to a channel ID upstream.
func (r ChannelRef) NeedsLookup() bool { return r.form != FormID }

func (r ChannelRef) String() string {
	if r.form == FormHandle {
		return "@" + r.id
	}
	return r.id
}

// NewChannelID wraps an already-known channel ID.
func NewChannelID(id string) (ChannelRef, error) {
	if !channelIDRe.MatchString(id) {
		return ChannelRef{}, fmt.Errorf("%w: channel id %q", ErrInvalidIdentifier, id)
	}
	return ChannelRef{id: id, form: FormID}, nil
}

var (
	videoIDRe    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	tokenRe      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	channelIDRe  = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	handleRe     = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	shortLinkKey = "youtu.be/"
)

var knownHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
}

// Resolve parses raw as a reference of the given kind.
func Resolve(kind Kind, raw string) (Ref, error) {
	switch kind {
	case KindVideo:
		return ResolveVideo(raw)
	case KindPlaylist:
		return ResolvePlaylist(raw)
	case KindChannel:
		return ResolveChannel(raw)
	}
	return nil, fmt.Errorf("%w: unknown kind %s", ErrInvalidIdentifier, kind)
}

// ResolveVideo accepts youtu.be short links, youtube.com watch/shorts/embed/live
// URLs and bare 11-character IDs.
func ResolveVideo(raw string) (VideoRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return VideoRef{}, fmt.Errorf("%w: empty video input", ErrInvalidIdentifier)
	}

	if idx := strings.LastIndex(raw, shortLinkKey); idx >= 0 {
		seg := raw[idx+len(shortLinkKey):]
		if cut := strings.IndexAny(seg, "?&"); cut >= 0 {
			seg = seg[:cut]
		}
		return videoOrErr(seg, raw)
	}

	if u, ok := parseKnown(raw); ok {
		if v := u.Query().Get("v"); v != "" {
			return videoOrErr(v, raw)
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if seg, ok := segmentAfter(u.Path, prefix); ok {
				return videoOrErr(seg, raw)
			}
		}
		return VideoRef{}, fmt.Errorf("%w: no video id in %q", ErrInvalidIdentifier, raw)
	}

	return videoOrErr(raw, raw)
}

func videoOrErr(id, raw string) (VideoRef, error) {
	if !videoIDRe.MatchString(id) {
		return VideoRef{}, fmt.Errorf("%w: video %q", ErrInvalidIdentifier, raw)
	}
	return VideoRef{id: id}, nil
}

// ResolvePlaylist accepts playlist URLs (list= parameter) and bare playlist IDs.
func ResolvePlaylist(raw string) (PlaylistRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PlaylistRef{}, fmt.Errorf("%w: empty playlist input", ErrInvalidIdentifier)
	}
	id := raw
	if u, ok := parseKnown(raw); ok {
		id = u.Query().Get("list")
	}
	if !tokenRe.MatchString(id) {
		return PlaylistRef{}, fmt.Errorf("%w: playlist %q", ErrInvalidIdentifier, raw)
	}
	return PlaylistRef{id: id}, nil
}

// ResolveChannel accepts @handles, channel URLs (/channel/, /c/, /@, /user/),
// UC... IDs and bare legacy usernames.
func ResolveChannel(raw string) (ChannelRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ChannelRef{}, fmt.Errorf("%w: empty channel input", ErrInvalidIdentifier)
	}

	if name, ok := strings.CutPrefix(raw, "@"); ok {
		return channelOrErr(name, FormHandle, raw)
	}

	if u, ok := parseKnown(raw); ok {
		markers := []struct {
			prefix string
			form   ChannelForm
		}{
			{"/channel/", FormID},
			{"/c/", FormCustom},
			{"/@", FormHandle},
			{"/user/", FormUsername},
		}
		for _, m := range markers {
			if seg, ok := segmentAfter(u.Path, m.prefix); ok {
				if m.form == FormID && !channelIDRe.MatchString(seg) {
					return ChannelRef{}, fmt.Errorf("%w: channel %q", ErrInvalidIdentifier, raw)
				}
				return channelOrErr(seg, m.form, raw)
			}
		}
	}

	if channelIDRe.MatchString(raw) {
		return ChannelRef{id: raw, form: FormID}, nil
	}
	return channelOrErr(raw, FormUsername, raw)
}

func channelOrErr(name string, form ChannelForm, raw string) (ChannelRef, error) {
	re := tokenRe
	if form == FormHandle {
		re = handleRe
	}
	if !re.MatchString(name) {
		return ChannelRef{}, fmt.Errorf("%w: channel %q", ErrInvalidIdentifier, raw)
	}
	return ChannelRef{id: name, form: form}, nil
}

// parseKnown parses raw as a URL on one of the YouTube hosts.
// Scheme-less inputs like "youtube.com/watch?v=..." are accepted.
func parseKnown(raw string) (*url.URL, bool) {
	s := raw
	if !strings.Contains(s, "://") && hasKnownHostPrefix(s) {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, knownHosts[strings.ToLower(u.Hostname())]
}

func hasKnownHostPrefix(s string) bool {
	lower := strings.ToLower(s)
	for h := range knownHosts {
		if strings.HasPrefix(lower, h+"/") {
			return true
		}
	}
	return false
}

// segmentAfter returns the first path segment following marker in path.
func segmentAfter(path, marker string) (string, bool) {
	idx := strings.Index(path, marker)
	if idx < 0 {
		return "", false
	}
	seg := path[idx+len(marker):]
	if cut := strings.IndexByte(seg, '/'); cut >= 0 {
		seg = seg[:cut]
	}
	return seg, seg != ""
}
