package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_youtube/internal/engine"
	"golang.org/x/net/html"
)

// Transcript fetching.
// Primary:  watch page ytInitialPlayerResponse → caption track → timedtext XML
// Fallback: ANDROID Innertube /player → caption track → timedtext XML

// ErrTranscriptUnavailable is returned when no caption track can be fetched.
var ErrTranscriptUnavailable = errors.New("transcript unavailable")

const (
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"

	// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
	ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "
)

// Segment is one timed caption line.
type Segment struct {
	Start    float64 `json:"start"`    // seconds
	Duration float64 `json:"duration"` // seconds
	Text     string  `json:"text"`
}

// Transcript is the caption text of one video.
type Transcript struct {
	VideoID   string    `json:"video_id"`
	Language  string    `json:"language"`
	Generated bool      `json:"auto_generated"`
	Source    string    `json:"source"` // watch_page or player
	Segments  []Segment `json:"segments"`
}

// Text joins all segments with single spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

// --- ANDROID client types (/player endpoint) ---

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// tracks returns the caption tracks or a reason why there are none.
func (p playerResp) tracks() ([]captionTrack, error) {
	if p.Captions == nil {
		if p.PlayabilityStatus != nil && p.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrTranscriptUnavailable, p.PlayabilityStatus.Reason)
		}
		return nil, fmt.Errorf("%w: no captions in player response", ErrTranscriptUnavailable)
	}
	ts := p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(ts) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks", ErrTranscriptUnavailable)
	}
	return ts, nil
}

// --- Timedtext XML types ---

// timedText covers both the default format (<text start dur>) and srv3 (<p t d>, milliseconds).
type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
	Paras []struct {
		T    string `xml:"t,attr"`
		D    string `xml:"d,attr"`
		Body string `xml:",innerxml"`
	} `xml:"body>p"`
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track. For each preferred language in order,
// a manual track wins over an auto-generated one; then any English variant, then the first usable track.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// parseTimedText decodes a timedtext document into segments.
func parseTimedText(body []byte) ([]Segment, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	var segs []Segment
	for _, line := range tt.Texts {
		text := cleanCaption(line.Body)
		if text == "" {
			continue
		}
		segs = append(segs, Segment{Start: parseSeconds(line.Start), Duration: parseSeconds(line.Dur), Text: text})
	}
	for _, p := range tt.Paras {
		text := cleanCaption(p.Body)
		if text == "" {
			continue
		}
		segs = append(segs, Segment{Start: parseMillis(p.T), Duration: parseMillis(p.D), Text: text})
	}
	return segs, nil
}

// cleanCaption strips markup and decodes the doubly-escaped entities timedtext carries (&amp;#39;).
func cleanCaption(s string) string {
	s = html.UnescapeString(engine.CleanHTML(s))
	return engine.CollapseSpace(html.UnescapeString(s))
}

func parseSeconds(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseMillis(s string) float64 {
	return parseSeconds(s) / 1000
}

// fetchTrack downloads and parses one caption track.
func fetchTrack(ctx context.Context, track captionTrack) ([]Segment, error) {
	body, err := engine.FetchBody(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return req, nil
	}, engine.MaxCaptionBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	segs, err := parseTimedText(body)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: empty caption track", ErrTranscriptUnavailable)
	}
	return segs, nil
}

// transcriptFrom picks a track from tracks and downloads it.
func transcriptFrom(ctx context.Context, videoID, source string, tracks []captionTrack, langs []string) (Transcript, error) {
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return Transcript{}, fmt.Errorf("%w: all caption tracks require PoToken", ErrTranscriptUnavailable)
	}
	segs, err := fetchTrack(ctx, track)
	if err != nil {
		return Transcript{}, err
	}
	return Transcript{
		VideoID:   videoID,
		Language:  track.LanguageCode,
		Generated: track.Kind == "asr",
		Source:    source,
		Segments:  segs,
	}, nil
}

// extractJSON returns the balanced JSON object at the start of b, or nil.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr, escaped := false, false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// playerResponseFromPage finds the inline script assigning ytInitialPlayerResponse
// and returns its JSON object.
func playerResponseFromPage(page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}
	var found bool
	var jsonData []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, ytInitialPlayerResponseMarker)
		if idx < 0 {
			return true
		}
		found = true
		jsonData = extractJSON([]byte(text[idx+len(ytInitialPlayerResponseMarker):]))
		return jsonData == nil
	})
	switch {
	case !found:
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	case jsonData == nil:
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	return jsonData, nil
}

// fetchViaPageScrape scrapes the watch page and reads caption tracks from ytInitialPlayerResponse.
func fetchViaPageScrape(ctx context.Context, videoID string, langs []string) (Transcript, error) {
	watchURL := engine.Cfg.WatchPageBase + "/watch?v=" + videoID
	body, err := engine.FetchBody(ctx, engine.BrowserGet(watchURL), engine.MaxPageBytes)
	if err != nil {
		return Transcript{}, fmt.Errorf("watch page: %w", err)
	}
	jsonData, err := playerResponseFromPage(body)
	if err != nil {
		return Transcript{}, err
	}

	var pr playerResp
	if err := json.Unmarshal(jsonData, &pr); err != nil {
		return Transcript{}, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	tracks, err := pr.tracks()
	if err != nil {
		return Transcript{}, err
	}
	return transcriptFrom(ctx, videoID, "watch_page", tracks, langs)
}

// fetchViaPlayer uses the ANDROID Innertube /player endpoint.
func fetchViaPlayer(ctx context.Context, videoID string, langs []string) (Transcript, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return Transcript{}, err
	}

	endpoint := engine.Cfg.WatchPageBase + "/youtubei/v1/player?prettyPrint=false"
	body, err := engine.FetchBody(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return req, nil
	}, engine.MaxPageBytes)
	if err != nil {
		return Transcript{}, fmt.Errorf("android innertube: %w", err)
	}

	var pr playerResp
	if err := json.Unmarshal(body, &pr); err != nil {
		return Transcript{}, fmt.Errorf("decode player: %w", err)
	}
	tracks, err := pr.tracks()
	if err != nil {
		return Transcript{}, err
	}
	return transcriptFrom(ctx, videoID, "player", tracks, langs)
}

// FetchTranscript fetches the transcript of a video, preferring lang, then
// English, then whatever track exists.
func FetchTranscript(ctx context.Context, videoID, lang string) (Transcript, error) {
	engine.IncrTranscript()
	langs := []string{lang}
	if lang != "en" {
		langs = append(langs, "en")
	}

	t, err := fetchViaPageScrape(ctx, videoID, langs)
	if err == nil {
		return t, nil
	}
	slog.Warn("youtube: page scrape failed, trying player",
		slog.String("id", videoID), slog.Any("err", err))

	t, err = fetchViaPlayer(ctx, videoID, langs)
	if err != nil {
		engine.IncrTranscriptErrors()
		if !errors.Is(err, ErrTranscriptUnavailable) {
			err = fmt.Errorf("%w: %w", ErrTranscriptUnavailable, err)
		}
		return Transcript{}, err
	}
	return t, nil
}
