package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Lister enumerates channel videos via the Data API.
type Lister struct {
	c *Client
}

func NewLister(c *Client) *Lister { return &Lister{c: c} }

const pageSize = 50

// ListLatest returns the n most recent uploads, newest first. Shorter
// channels return what exists.
func (l *Lister) ListLatest(ctx context.Context, channelID string, n int) ([]engine.VideoRef, error) {
	engine.IncrVideoListings()
	if n <= 0 {
		return nil, fmt.Errorf("%w: non-positive video count %d", engine.ErrInvalidArgument, n)
	}

	// The uploads playlist ID mirrors the channel ID with a UU prefix.
	playlistID := "UU" + strings.TrimPrefix(channelID, "UC")

	var ids []string
	pageToken := ""
	for len(ids) < n {
		if err := waitListing(ctx); err != nil {
			return nil, err
		}
		call := l.c.svc.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*yt.PlaylistItemListResponse, error) {
			resp, err := call.Do()
			if err != nil {
				return nil, classifyAPI(err)
			}
			return resp, nil
		})
		if err != nil {
			if isNotFound(err) {
				// Channel exists but has no uploads playlist yet.
				return nil, nil
			}
			return nil, &engine.UpstreamError{Op: "list", Err: err}
		}
		for _, item := range resp.Items {
			if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	if len(ids) > n {
		ids = ids[:n]
	}

	return l.hydrate(ctx, ids)
}

// ListByRange returns videos published in [start, end), newest first,
// truncated to maxVideos when positive.
func (l *Lister) ListByRange(ctx context.Context, channelID string, start, end time.Time, maxVideos int) ([]engine.VideoRef, error) {
	engine.IncrVideoListings()
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", engine.ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if start.Equal(end) {
		// Empty half-open window.
		return nil, nil
	}

	var ids []string
	pageToken := ""
	for {
		if err := waitListing(ctx); err != nil {
			return nil, err
		}
		call := l.c.svc.Search.List([]string{"id"}).
			ChannelId(channelID).
			Type("video").
			Order("date").
			PublishedAfter(start.UTC().Format(time.RFC3339)).
			PublishedBefore(end.UTC().Format(time.RFC3339)).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*yt.SearchListResponse, error) {
			resp, err := call.Do()
			if err != nil {
				return nil, classifyAPI(err)
			}
			return resp, nil
		})
		if err != nil {
			return nil, &engine.UpstreamError{Op: "search", Err: err}
		}
		for _, item := range resp.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				ids = append(ids, item.Id.VideoId)
			}
		}
		pageToken = resp.NextPageToken
		if pageToken == "" || (maxVideos > 0 && len(ids) >= maxVideos) {
			break
		}
	}
	if maxVideos > 0 && len(ids) > maxVideos {
		ids = ids[:maxVideos]
	}

	videos, err := l.hydrate(ctx, ids)
	if err != nil {
		return nil, err
	}
	// Search treats publishedBefore inclusively; enforce the half-open window.
	return filterWindow(videos, start, end), nil
}

// hydrate fetches full metadata for the given IDs, preserving their order.
func (l *Lister) hydrate(ctx context.Context, ids []string) ([]engine.VideoRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	byID := make(map[string]engine.VideoRef, len(ids))
	for batch := range slices.Chunk(ids, pageSize) {
		if err := waitListing(ctx); err != nil {
			return nil, err
		}
		call := l.c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(batch...).
			Context(ctx)
		resp, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*yt.VideoListResponse, error) {
			resp, err := call.Do()
			if err != nil {
				return nil, classifyAPI(err)
			}
			return resp, nil
		})
		if err != nil {
			return nil, &engine.UpstreamError{Op: "list", Err: err}
		}
		for _, v := range resp.Items {
			byID[v.Id] = videoRef(v)
		}
	}

	out := make([]engine.VideoRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := byID[id]; ok {
			out = append(out, ref)
		}
	}
	slog.Debug("youtube: videos hydrated", slog.Int("requested", len(ids)), slog.Int("found", len(out)))
	return out, nil
}

func videoRef(v *yt.Video) engine.VideoRef {
	ref := engine.VideoRef{VideoID: v.Id}
	if v.Snippet != nil {
		ref.Title = v.Snippet.Title
		ref.Description = v.Snippet.Description
		ref.ChannelTitle = v.Snippet.ChannelTitle
		if t, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
			ref.PublishedAt = t
		}
		ref.DefaultAudioLanguage = v.Snippet.DefaultAudioLanguage
		if ref.DefaultAudioLanguage == "" {
			ref.DefaultAudioLanguage = v.Snippet.DefaultLanguage
		}
	}
	if v.ContentDetails != nil {
		ref.DurationSeconds = parseISODuration(v.ContentDetails.Duration)
		ref.HasSubtitles = v.ContentDetails.Caption == "true"
	}
	if v.Statistics != nil {
		ref.ViewCount = v.Statistics.ViewCount
	}
	return ref
}

var isoDurationRE = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts an ISO 8601 duration like PT1H2M3S to seconds.
// Returns 0 for anything it cannot parse.
func parseISODuration(s string) int64 {
	m := isoDurationRE.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	atoi := func(v string) int64 {
		if v == "" {
			return 0
		}
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return atoi(m[1])*86400 + atoi(m[2])*3600 + atoi(m[3])*60 + atoi(m[4])
}

func filterWindow(videos []engine.VideoRef, start, end time.Time) []engine.VideoRef {
	out := make([]engine.VideoRef, 0, len(videos))
	for _, v := range videos {
		if !v.PublishedAt.Before(start) && v.PublishedAt.Before(end) {
			out = append(out, v)
		}
	}
	return out
}
