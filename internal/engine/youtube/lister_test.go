package youtube

import (
	"context"
	"errors"
	"testing"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"PT1H2M3S", 3723},
		{"PT15M33S", 933},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"P1DT2H", 93600},
		{"PT0S", 0},
		{"P0D", 0}, // live streams report this
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseISODuration(tt.in); got != tt.want {
			t.Errorf("parseISODuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestVideoRefMapping(t *testing.T) {
	v := &yt.Video{
		Id: "abc123",
		Snippet: &yt.VideoSnippet{
			Title:           "Test Video",
			ChannelTitle:    "Test Channel",
			PublishedAt:     "2026-03-15T10:00:00Z",
			DefaultLanguage: "de",
		},
		ContentDetails: &yt.VideoContentDetails{
			Duration: "PT10M",
			Caption:  "true",
		},
		Statistics: &yt.VideoStatistics{ViewCount: 12345},
	}

	ref := videoRef(v)
	if ref.VideoID != "abc123" || ref.Title != "Test Video" {
		t.Errorf("identity fields: %+v", ref)
	}
	if ref.DurationSeconds != 600 {
		t.Errorf("duration = %d, want 600", ref.DurationSeconds)
	}
	if !ref.HasSubtitles {
		t.Error("caption flag not mapped")
	}
	if ref.ViewCount != 12345 {
		t.Errorf("views = %d", ref.ViewCount)
	}
	// defaultAudioLanguage absent falls back to defaultLanguage
	if ref.DefaultAudioLanguage != "de" {
		t.Errorf("language = %q, want de", ref.DefaultAudioLanguage)
	}
	want := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	if !ref.PublishedAt.Equal(want) {
		t.Errorf("published = %v", ref.PublishedAt)
	}
}

func TestVideoRefAudioLanguagePreferred(t *testing.T) {
	v := &yt.Video{
		Id: "x",
		Snippet: &yt.VideoSnippet{
			DefaultAudioLanguage: "ja",
			DefaultLanguage:      "en",
		},
	}
	if got := videoRef(v).DefaultAudioLanguage; got != "ja" {
		t.Errorf("got %q, want ja", got)
	}
}

func TestListByRangeDegenerateWindow(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	l := &Lister{}

	// start == end never reaches the API; it is just an empty window.
	videos, err := l.ListByRange(context.Background(), "UCtest", at, at, 10)
	if err != nil {
		t.Fatalf("ListByRange: %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("got %d videos, want 0", len(videos))
	}

	_, err = l.ListByRange(context.Background(), "UCtest", at.Add(time.Hour), at, 10)
	if !errors.Is(err, engine.ErrInvalidRange) {
		t.Errorf("reversed range: got %v, want ErrInvalidRange", err)
	}
}

func TestFilterWindow(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 5, d, 12, 0, 0, 0, time.UTC)
	}
	videos := []engine.VideoRef{
		{VideoID: "a", PublishedAt: day(1)},
		{VideoID: "b", PublishedAt: day(5)},
		{VideoID: "c", PublishedAt: day(10)},
	}

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	got := filterWindow(videos, start, end)
	if len(got) != 2 || got[0].VideoID != "a" || got[1].VideoID != "b" {
		t.Errorf("window [1,10): got %+v", got)
	}

	// boundary: published exactly at start is in, exactly at end is out
	edge := []engine.VideoRef{
		{VideoID: "s", PublishedAt: start},
		{VideoID: "e", PublishedAt: end},
	}
	got = filterWindow(edge, start, end)
	if len(got) != 1 || got[0].VideoID != "s" {
		t.Errorf("boundary: got %+v", got)
	}
}
