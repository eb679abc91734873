package youtube

import (
	"testing"
	"time"

	yt "google.golang.org/api/youtube/v3"
)

func TestChannelRefMapping(t *testing.T) {
	ch := &yt.Channel{
		Id: "UCBJycsmduvYEL83R_U4JriQ",
		Snippet: &yt.ChannelSnippet{
			Title:       "Marques Brownlee",
			Description: "Quality tech videos",
			CustomUrl:   "@mkbhd",
			Country:     "US",
			PublishedAt: "2008-03-21T15:25:54Z",
		},
		Statistics: &yt.ChannelStatistics{
			SubscriberCount: 18000000,
			VideoCount:      1600,
			ViewCount:       3500000000,
		},
	}

	ref := channelRef("@MKBHD", ch)
	if ref.ChannelID != "UCBJycsmduvYEL83R_U4JriQ" || ref.Title != "Marques Brownlee" {
		t.Errorf("identity fields: %+v", ref)
	}
	if ref.CustomURL != "@mkbhd" || ref.Country != "US" {
		t.Errorf("snippet fields: %+v", ref)
	}
	if ref.SubscriberCount != 18000000 || ref.VideoCount != 1600 || ref.ViewCount != 3500000000 {
		t.Errorf("statistics: %+v", ref)
	}
	want := time.Date(2008, 3, 21, 15, 25, 54, 0, time.UTC)
	if !ref.PublishedAt.Equal(want) {
		t.Errorf("published = %v", ref.PublishedAt)
	}
}

func TestChannelRefKeepsCallerHandle(t *testing.T) {
	ch := &yt.Channel{Id: "UCBJycsmduvYEL83R_U4JriQ"}

	// The @ prefix and casing are the caller's; only lookup normalizes.
	for _, in := range []string{"@MKBHD", "mkbhd", "UCBJycsmduvYEL83R_U4JriQ"} {
		if got := channelRef(in, ch).Handle; got != in {
			t.Errorf("Handle = %q, want caller form %q", got, in)
		}
	}
	if got := channelRef("  @mkbhd  ", ch).Handle; got != "@mkbhd" {
		t.Errorf("Handle = %q, want trimmed %q", got, "@mkbhd")
	}
}
