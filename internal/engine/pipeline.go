package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// ChannelResolver turns a handle or channel ID into channel metadata.
type ChannelResolver interface {
	Resolve(ctx context.Context, handleOrID string) (*ChannelRef, error)
}

// VideoLister enumerates a channel's videos.
type VideoLister interface {
	ListLatest(ctx context.Context, channelID string, n int) ([]VideoRef, error)
	ListByRange(ctx context.Context, channelID string, start, end time.Time, maxVideos int) ([]VideoRef, error)
}

// TranscriptAcquirer obtains a transcript for a single video.
type TranscriptAcquirer interface {
	Acquire(ctx context.Context, video VideoRef, langHint string) (*Transcript, error)
}

// Summarizer produces a structured summary from a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, video VideoRef, transcript *Transcript, opts SummaryOptions) (*Summary, error)
}

// Pipeline runs the full channel → videos → transcripts → summaries flow.
type Pipeline struct {
	Resolver   ChannelResolver
	Lister     VideoLister
	Acquirer   TranscriptAcquirer
	Summarizer Summarizer
}

// Run executes the pipeline for one channel selection.
//
// Channel resolution and video listing failures abort the whole run.
// Per-video failures do not: each video gets exactly one outcome, a
// Summary or a VideoError, and Outcomes preserves listing order.
func (p *Pipeline) Run(ctx context.Context, handleOrID string, sel Selection, opts SummaryOptions) (*PipelineResult, error) {
	IncrPipelineRuns()

	channel, err := p.Resolver.Resolve(ctx, handleOrID)
	if err != nil {
		return nil, err
	}

	videos, err := p.listVideos(ctx, channel.ChannelID, sel)
	if err != nil {
		return nil, err
	}

	slog.Info("pipeline: processing videos",
		slog.String("channel", channel.Title),
		slog.Int("count", len(videos)))

	outcomes := make([]VideoOutcome, len(videos))

	g, gctx := errgroup.WithContext(ctx)
	limit := Cfg.MaxConcurrentVideos
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, video := range videos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summary, err := p.processVideo(gctx, video, opts)
			if err != nil {
				// Context cancellation aborts siblings; everything else
				// is recorded against this video only.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.Warn("pipeline: video failed",
					slog.String("video_id", video.VideoID),
					slog.Any("error", err))
				IncrVideoFailures()
				outcomes[i] = VideoOutcome{Error: &VideoError{
					VideoID: video.VideoID,
					Title:   video.Title,
					Reason:  TruncateRunes(err.Error(), 500, "..."),
					Quota:   IsQuotaExceeded(err),
				}}
				return nil
			}
			IncrVideosSummarized()
			outcomes[i] = VideoOutcome{Summary: summary}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PipelineResult{Channel: *channel, Outcomes: outcomes}, nil
}

func (p *Pipeline) listVideos(ctx context.Context, channelID string, sel Selection) ([]VideoRef, error) {
	switch {
	case sel.Latest > 0:
		return p.Lister.ListLatest(ctx, channelID, sel.Latest)
	case !sel.Start.IsZero() && !sel.End.IsZero():
		if sel.Start.After(sel.End) {
			return nil, fmt.Errorf("%w: start %s after end %s",
				ErrInvalidRange, sel.Start.Format(time.RFC3339), sel.End.Format(time.RFC3339))
		}
		return p.Lister.ListByRange(ctx, channelID, sel.Start, sel.End, sel.MaxVideos)
	default:
		return nil, fmt.Errorf("%w: selection needs latest count or time range", ErrInvalidArgument)
	}
}

func (p *Pipeline) processVideo(ctx context.Context, video VideoRef, opts SummaryOptions) (*Summary, error) {
	transcript, err := p.Acquirer.Acquire(ctx, video, video.DefaultAudioLanguage)
	if err != nil {
		return nil, err
	}

	summary, err := p.Summarizer.Summarize(ctx, video, transcript, opts)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
