package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Captions lists and downloads subtitle tracks for single videos.
type Captions struct{}

func NewCaptions() *Captions { return &Captions{} }

// needsPoToken reports whether a track URL requires a browser-only PoToken.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// ListTracks returns the usable caption tracks for a video, trying the
// ANDROID player endpoint first and the watch page second. An empty list
// with a nil error means the video genuinely has no usable subtitles.
func (c *Captions) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	tracks, err := fetchPlayerTracks(ctx, videoID)
	if err != nil {
		slog.Debug("youtube: player track listing failed, scraping watch page",
			slog.String("video_id", videoID), slog.Any("error", err))
		tracks, err = fetchWatchPageTracks(ctx, videoID)
		if err != nil {
			// Indistinguishable from "no subtitles" for the caller; the
			// acquirer falls through to transcription either way.
			slog.Debug("youtube: watch page track listing failed",
				slog.String("video_id", videoID), slog.Any("error", err))
			return nil, nil
		}
	}

	usable := make([]CaptionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	return usable, nil
}

// PickTrack selects the track to download. Preference order: manual track in
// the hinted language, any track in the hinted language, any manual track,
// then the first advertised track. Language matching compares base tags, so a
// "zh-CN" hint matches a "zh" track.
func PickTrack(tracks []CaptionTrack, langHint string) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}

	if langHint != "" {
		want := engine.BaseLang(langHint)
		for _, t := range tracks {
			if engine.BaseLang(t.LanguageCode) == want && !t.Auto() {
				return t, true
			}
		}
		for _, t := range tracks {
			if engine.BaseLang(t.LanguageCode) == want {
				return t, true
			}
		}
	}
	for _, t := range tracks {
		if !t.Auto() {
			return t, true
		}
	}
	return tracks[0], true
}

// FetchTrack downloads a caption track and returns its plain text.
func (c *Captions) FetchTrack(ctx context.Context, track CaptionTrack) (string, error) {
	engine.IncrSubtitleFetches()

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", err
	}

	text, err := parseTimedText(body)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("empty caption track")
	}
	return text, nil
}

// parseTimedText extracts plain text from timedtext XML, decoding HTML
// entities and dropping markup.
func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := engine.CleanHTML(line.Text)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}
