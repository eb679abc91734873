package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Resolver turns handles and raw channel IDs into channel metadata.
type Resolver struct {
	c *Client
}

func NewResolver(c *Client) *Resolver { return &Resolver{c: c} }

// Resolve accepts "@handle", "handle", or a raw UC… channel ID.
func (r *Resolver) Resolve(ctx context.Context, handleOrID string) (*engine.ChannelRef, error) {
	engine.IncrChannelLookups()

	input := engine.NormalizeHandle(handleOrID)
	if input == "" {
		return nil, fmt.Errorf("%w: empty channel handle", engine.ErrInvalidArgument)
	}

	if err := waitListing(ctx); err != nil {
		return nil, err
	}

	call := r.c.svc.Channels.List([]string{"snippet", "statistics"}).Context(ctx)
	if engine.IsChannelID(input) {
		call = call.Id(input)
	} else {
		call = call.ForHandle(input)
	}

	resp, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() (*yt.ChannelListResponse, error) {
		resp, err := call.Do()
		if err != nil {
			return nil, classifyAPI(err)
		}
		return resp, nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", engine.ErrChannelNotFound, handleOrID)
		}
		return nil, &engine.UpstreamError{Op: "resolve", Err: err}
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", engine.ErrChannelNotFound, handleOrID)
	}

	ref := channelRef(handleOrID, resp.Items[0])

	slog.Debug("youtube: channel resolved",
		slog.String("input", handleOrID),
		slog.String("channel_id", ref.ChannelID),
		slog.String("title", ref.Title))
	return ref, nil
}

// channelRef maps an API channel to the engine model. Handle keeps the
// caller's form ("@mkbhd" stays "@mkbhd"); normalization is for lookup only.
func channelRef(handleOrID string, ch *yt.Channel) *engine.ChannelRef {
	ref := &engine.ChannelRef{
		Handle:    strings.TrimSpace(handleOrID),
		ChannelID: ch.Id,
	}
	if ch.Snippet != nil {
		ref.Title = ch.Snippet.Title
		ref.Description = ch.Snippet.Description
		ref.CustomURL = ch.Snippet.CustomUrl
		ref.Country = ch.Snippet.Country
		if t, err := time.Parse(time.RFC3339, ch.Snippet.PublishedAt); err == nil {
			ref.PublishedAt = t
		}
	}
	if ch.Statistics != nil {
		ref.SubscriberCount = ch.Statistics.SubscriberCount
		ref.VideoCount = ch.Statistics.VideoCount
		ref.ViewCount = ch.Statistics.ViewCount
	}
	return ref
}
