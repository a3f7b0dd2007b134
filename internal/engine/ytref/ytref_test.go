package ytref

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVideo(t *testing.T) {
	const id = "dQw4w9WgXcQ"
	tests := []struct {
		name  string
		input string
	}{
		{"bare id", id},
		{"bare id with spaces", "  " + id + "\n"},
		{"short link", "https://youtu.be/" + id},
		{"short link with time", "https://youtu.be/" + id + "?t=42"},
		{"short link with amp", "youtu.be/" + id + "&feature=share"},
		{"watch url", "https://www.youtube.com/watch?v=" + id},
		{"watch url extra params", "https://www.youtube.com/watch?list=PLabc&v=" + id + "&index=3"},
		{"bare host", "https://youtube.com/watch?v=" + id},
		{"mobile host", "https://m.youtube.com/watch?v=" + id},
		{"music host", "https://music.youtube.com/watch?v=" + id},
		{"no scheme", "www.youtube.com/watch?v=" + id},
		{"shorts", "https://www.youtube.com/shorts/" + id},
		{"embed", "https://www.youtube.com/embed/" + id + "?autoplay=1"},
		{"live", "https://www.youtube.com/live/" + id},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ResolveVideo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, id, ref.ID())
			assert.Equal(t, KindVideo, ref.Kind())
		})
	}
}

func TestResolveVideoRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ten chars", "dQw4w9WgXc"},
		{"twelve chars", "dQw4w9WgXcQQ"},
		{"bad char", "dQw4w9WgX.Q"},
		{"space inside", "dQw4w 9WgXQ"},
		{"watch without v", "https://www.youtube.com/watch?list=PLabc"},
		{"short link bad id", "https://youtu.be/short"},
		{"foreign host", "https://vimeo.com/watch?v=dQw4w9WgXcQ"},
		{"channel url", "https://www.youtube.com/@somebody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveVideo(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidIdentifier), "got %v", err)
		})
	}
}

func TestResolveVideoCaseSensitive(t *testing.T) {
	a, err := ResolveVideo("abcdefghijk")
	require.NoError(t, err)
	b, err := ResolveVideo("ABCDEFGHIJK")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestResolvePlaylist(t *testing.T) {
	const id = "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf"
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical id unchanged", id, id},
		{"playlist url", "https://www.youtube.com/playlist?list=" + id, id},
		{"watch url with list", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=" + id, id},
		{"mobile", "https://m.youtube.com/playlist?list=" + id, id},
		{"short id", "RDdQw4w9WgXcQ", "RDdQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ResolvePlaylist(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.ID())
			assert.Equal(t, "https://www.youtube.com/playlist?list="+tt.want, ref.URL())
		})
	}

	for _, bad := range []string{"", "https://www.youtube.com/playlist", "PL with space", "https://example.com/playlist?list=PLx"} {
		_, err := ResolvePlaylist(bad)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "input %q", bad)
	}
}

func TestResolveChannel(t *testing.T) {
	const ucID = "UCuAXFkgsw1L7xaCfnd5JJOw"
	tests := []struct {
		name     string
		input    string
		wantID   string
		wantForm ChannelForm
	}{
		{"handle", "@GoogleDevelopers", "GoogleDevelopers", FormHandle},
		{"handle with dot", "@some.name", "some.name", FormHandle},
		{"channel url", "https://www.youtube.com/channel/" + ucID, ucID, FormID},
		{"channel url trailing path", "https://www.youtube.com/channel/" + ucID + "/videos", ucID, FormID},
		{"custom url", "https://www.youtube.com/c/LinusTechTips", "LinusTechTips", FormCustom},
		{"handle url", "https://youtube.com/@mkbhd/featured", "mkbhd", FormHandle},
		{"user url", "https://m.youtube.com/user/pewdiepie", "pewdiepie", FormUsername},
		{"bare id", ucID, ucID, FormID},
		{"bare username", "GoogleDevelopers", "GoogleDevelopers", FormUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ResolveChannel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID())
			assert.Equal(t, tt.wantForm, ref.Form())
			assert.Equal(t, tt.wantForm != FormID, ref.NeedsLookup())
		})
	}
}

func TestResolveChannelPriority(t *testing.T) {
	// /channel/ wins over a later /user/ segment.
	ref, err := ResolveChannel("https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw/user/other")
	require.NoError(t, err)
	assert.Equal(t, FormID, ref.Form())
	assert.Equal(t, "UCuAXFkgsw1L7xaCfnd5JJOw", ref.ID())
}

func TestResolveChannelRejects(t *testing.T) {
	for _, bad := range []string{
		"",
		"@",
		"@bad name",
		"https://www.youtube.com/channel/notAnId",
		"https://vimeo.com/user/foo",
		"has spaces",
	} {
		_, err := ResolveChannel(bad)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "input %q", bad)
	}
}

func TestResolveDispatch(t *testing.T) {
	ref, err := Resolve(KindVideo, "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	_, ok := ref.(VideoRef)
	assert.True(t, ok)

	ref, err = Resolve(KindPlaylist, "PLabc")
	require.NoError(t, err)
	_, ok = ref.(PlaylistRef)
	assert.True(t, ok)

	ref, err = Resolve(KindChannel, "@handle")
	require.NoError(t, err)
	ch, ok := ref.(ChannelRef)
	require.True(t, ok)
	assert.Equal(t, "@handle", ch.String())

	_, err = Resolve(Kind(99), "x")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestNewChannelID(t *testing.T) {
	ref, err := NewChannelID("UCuAXFkgsw1L7xaCfnd5JJOw")
	require.NoError(t, err)
	assert.False(t, ref.NeedsLookup())

	_, err = NewChannelID("mkbhd")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}
