package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type fakeResolver struct {
	channel *ChannelRef
	err     error
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (*ChannelRef, error) {
	return f.channel, f.err
}

type fakeLister struct {
	videos []VideoRef
	err    error
}

func (f *fakeLister) ListLatest(_ context.Context, _ string, n int) ([]VideoRef, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n > len(f.videos) {
		n = len(f.videos)
	}
	return f.videos[:n], nil
}

func (f *fakeLister) ListByRange(_ context.Context, _ string, _, _ time.Time, _ int) ([]VideoRef, error) {
	return f.videos, f.err
}

type fakeAcquirer struct {
	failFor map[string]error
}

func (f *fakeAcquirer) Acquire(_ context.Context, video VideoRef, _ string) (*Transcript, error) {
	if err, ok := f.failFor[video.VideoID]; ok {
		return nil, err
	}
	return &Transcript{
		VideoID:  video.VideoID,
		Text:     "transcript for " + video.VideoID,
		Language: "en",
		Source:   SourceSubtitle,
	}, nil
}

type fakeSummarizer struct {
	failFor map[string]error
	calls   atomic.Int64
}

func (f *fakeSummarizer) Summarize(_ context.Context, video VideoRef, transcript *Transcript, _ SummaryOptions) (*Summary, error) {
	f.calls.Add(1)
	if err, ok := f.failFor[video.VideoID]; ok {
		return nil, err
	}
	return &Summary{
		VideoID:          video.VideoID,
		Title:            video.Title,
		URL:              video.URL(),
		Content:          SummaryContent{Summary: "summary of " + transcript.Text},
		Provider:         "fake",
		TranscriptSource: transcript.Source,
	}, nil
}

func testVideos(n int) []VideoRef {
	videos := make([]VideoRef, n)
	for i := range videos {
		videos[i] = VideoRef{
			VideoID: fmt.Sprintf("vid%02d", i),
			Title:   fmt.Sprintf("Video %d", i),
		}
	}
	return videos
}

func testPipeline(videos []VideoRef) *Pipeline {
	return &Pipeline{
		Resolver:   &fakeResolver{channel: &ChannelRef{ChannelID: "UCtest", Title: "Test Channel"}},
		Lister:     &fakeLister{videos: videos},
		Acquirer:   &fakeAcquirer{},
		Summarizer: &fakeSummarizer{},
	}
}

func TestPipelineRunOrderPreserved(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 3})

	p := testPipeline(testVideos(8))
	result, err := p.Run(context.Background(), "@test", Selection{Latest: 8}, SummaryOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Outcomes) != 8 {
		t.Fatalf("got %d outcomes, want 8", len(result.Outcomes))
	}
	for i, o := range result.Outcomes {
		if o.Summary == nil {
			t.Fatalf("outcome %d has no summary", i)
		}
		want := fmt.Sprintf("vid%02d", i)
		if o.Summary.VideoID != want {
			t.Errorf("outcome %d: got video %s, want %s", i, o.Summary.VideoID, want)
		}
	}
}

func TestPipelineVideoFailureDoesNotAbortSiblings(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 2})

	p := testPipeline(testVideos(5))
	p.Acquirer = &fakeAcquirer{failFor: map[string]error{
		"vid02": ErrTranscriptUnavailable,
	}}

	result, err := p.Run(context.Background(), "@test", Selection{Latest: 5}, SummaryOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Outcomes) != 5 {
		t.Fatalf("got %d outcomes, want 5", len(result.Outcomes))
	}
	for i, o := range result.Outcomes {
		if i == 2 {
			if o.Error == nil {
				t.Fatal("expected error outcome for vid02")
			}
			if !strings.Contains(o.Error.Reason, "transcript") {
				t.Errorf("reason %q does not mention transcript", o.Error.Reason)
			}
			continue
		}
		if o.Summary == nil {
			t.Errorf("outcome %d should have succeeded", i)
		}
	}
}

func TestPipelineQuotaFlagged(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 2})

	quotaErr := &ProviderError{Provider: "openai", Quota: true, Err: errors.New("insufficient_quota")}
	plainErr := &ProviderError{Provider: "openai", Err: errors.New("bad gateway")}

	p := testPipeline(testVideos(3))
	p.Summarizer = &fakeSummarizer{failFor: map[string]error{
		"vid00": quotaErr,
		"vid01": plainErr,
	}}

	result, err := p.Run(context.Background(), "@test", Selection{Latest: 3}, SummaryOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Outcomes[0].Error == nil || !result.Outcomes[0].Error.Quota {
		t.Error("quota failure not flagged")
	}
	if result.Outcomes[1].Error == nil || result.Outcomes[1].Error.Quota {
		t.Error("non-quota provider failure wrongly flagged as quota")
	}
	if result.Outcomes[2].Summary == nil {
		t.Error("unaffected video should have succeeded")
	}
}

func TestPipelineResolveFailureAborts(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 2})

	p := testPipeline(testVideos(3))
	p.Resolver = &fakeResolver{err: fmt.Errorf("%w: @nobody", ErrChannelNotFound)}

	_, err := p.Run(context.Background(), "@nobody", Selection{Latest: 3}, SummaryOptions{})
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("got %v, want ErrChannelNotFound", err)
	}
}

func TestPipelineInvalidSelection(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 2})
	p := testPipeline(testVideos(3))

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := p.Run(context.Background(), "@test", Selection{Start: start, End: end}, SummaryOptions{})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range: got %v, want ErrInvalidRange", err)
	}

	_, err = p.Run(context.Background(), "@test", Selection{}, SummaryOptions{})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty selection: got %v, want ErrInvalidArgument", err)
	}
}

func TestPipelineErrorReasonBounded(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 2})

	longErr := errors.New("upstream said: " + strings.Repeat("я", 2000))
	p := testPipeline(testVideos(1))
	p.Summarizer = &fakeSummarizer{failFor: map[string]error{"vid00": longErr}}

	result, err := p.Run(context.Background(), "@test", Selection{Latest: 1}, SummaryOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ve := result.Outcomes[0].Error
	if ve == nil {
		t.Fatal("expected error outcome")
	}
	if n := len([]rune(ve.Reason)); n > 503 {
		t.Errorf("reason is %d runes, want truncated", n)
	}
	if !strings.HasSuffix(ve.Reason, "...") {
		t.Error("reason not marked truncated")
	}
}

func TestPipelineDegenerateWindowAllowed(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 2})
	p := testPipeline(nil)

	// start == end is an empty half-open window, not an invalid range.
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := p.Run(context.Background(), "@test", Selection{Start: at, End: at}, SummaryOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Outcomes) != 0 {
		t.Errorf("got %d outcomes, want 0", len(result.Outcomes))
	}
}

func TestPipelineCancellation(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testPipeline(testVideos(4))
	_, err := p.Run(ctx, "@test", Selection{Latest: 4}, SummaryOptions{})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestPipelineEmptyListing(t *testing.T) {
	Init(Config{MaxConcurrentVideos: 2})

	p := testPipeline(nil)
	result, err := p.Run(context.Background(), "@test", Selection{Latest: 5}, SummaryOptions{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Outcomes) != 0 {
		t.Errorf("got %d outcomes, want 0", len(result.Outcomes))
	}
	if result.Channel.ChannelID != "UCtest" {
		t.Errorf("channel metadata missing: %+v", result.Channel)
	}
}
