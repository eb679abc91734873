package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/youtube"
)

type fakeSubtitles struct {
	tracks   []youtube.CaptionTrack
	listErr  error
	fetchErr error
	text     string
	fetched  *youtube.CaptionTrack
}

func (f *fakeSubtitles) ListTracks(_ context.Context, _ string) ([]youtube.CaptionTrack, error) {
	return f.tracks, f.listErr
}

func (f *fakeSubtitles) FetchTrack(_ context.Context, track youtube.CaptionTrack) (string, error) {
	f.fetched = &track
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.text, nil
}

type fakeAudio struct {
	path        string
	err         error
	cleanedUp   bool
	downloadRan bool
}

func (f *fakeAudio) Download(_ context.Context, _ string) (string, func(), error) {
	f.downloadRan = true
	if f.err != nil {
		return "", nil, f.err
	}
	return f.path, func() { f.cleanedUp = true }, nil
}

type fakeSpeech struct {
	text string
	err  error
	lang string
}

func (f *fakeSpeech) Transcribe(_ context.Context, _, lang string) (string, error) {
	f.lang = lang
	return f.text, f.err
}

var testVideo = engine.VideoRef{VideoID: "dQw4w9WgXcQ", Title: "Test"}

func TestAcquireSubtitleFirst(t *testing.T) {
	subs := &fakeSubtitles{
		tracks: []youtube.CaptionTrack{{LanguageCode: "en"}},
		text:   "hello   world",
	}
	audio := &fakeAudio{}
	a := NewAcquirer(subs, audio, &fakeSpeech{})

	tr, err := a.Acquire(context.Background(), testVideo, "en")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if tr.Source != engine.SourceSubtitle {
		t.Errorf("source = %s, want subtitle", tr.Source)
	}
	if tr.Text != "hello world" {
		t.Errorf("text not normalized: %q", tr.Text)
	}
	if tr.Language != "en" {
		t.Errorf("language = %q", tr.Language)
	}
	if audio.downloadRan {
		t.Error("transcription ran despite available subtitles")
	}
}

func TestAcquireHintedTrackPreferred(t *testing.T) {
	subs := &fakeSubtitles{
		tracks: []youtube.CaptionTrack{
			{LanguageCode: "en"},
			{LanguageCode: "ja"},
		},
		text: "konnichiwa",
	}
	a := NewAcquirer(subs, nil, nil)

	tr, err := a.Acquire(context.Background(), testVideo, "ja")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if subs.fetched == nil || subs.fetched.LanguageCode != "ja" {
		t.Errorf("fetched track %+v, want ja", subs.fetched)
	}
	if tr.Language != "ja" {
		t.Errorf("language = %q", tr.Language)
	}
}

func TestAcquireFallsBackToTranscription(t *testing.T) {
	subs := &fakeSubtitles{} // no tracks
	audio := &fakeAudio{path: "/tmp/a.m4a"}
	speech := &fakeSpeech{text: "transcribed words"}
	a := NewAcquirer(subs, audio, speech)

	tr, err := a.Acquire(context.Background(), testVideo, "zh-CN")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if tr.Source != engine.SourceTranscribed {
		t.Errorf("source = %s, want transcribed", tr.Source)
	}
	if speech.lang != "zh" {
		t.Errorf("hint not reduced to base tag: %q", speech.lang)
	}
	if !audio.cleanedUp {
		t.Error("audio temp dir not cleaned up after success")
	}
}

func TestAcquireCleanupOnTranscribeFailure(t *testing.T) {
	audio := &fakeAudio{path: "/tmp/a.m4a"}
	speech := &fakeSpeech{err: &engine.ProviderError{Provider: "whisper", Err: errors.New("boom")}}
	a := NewAcquirer(&fakeSubtitles{}, audio, speech)

	_, err := a.Acquire(context.Background(), testVideo, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !audio.cleanedUp {
		t.Error("audio temp dir not cleaned up after failure")
	}
}

func TestAcquireUnavailableWhenNothingConfigured(t *testing.T) {
	a := NewAcquirer(&fakeSubtitles{}, nil, nil)

	_, err := a.Acquire(context.Background(), testVideo, "en")
	if !errors.Is(err, engine.ErrTranscriptUnavailable) {
		t.Errorf("got %v, want ErrTranscriptUnavailable", err)
	}
}

func TestAcquireSubtitleFailureFallsThrough(t *testing.T) {
	subs := &fakeSubtitles{
		tracks:   []youtube.CaptionTrack{{LanguageCode: "en"}},
		fetchErr: errors.New("timedtext 403"),
	}
	audio := &fakeAudio{path: "/tmp/a.m4a"}
	speech := &fakeSpeech{text: "recovered via transcription"}
	a := NewAcquirer(subs, audio, speech)

	tr, err := a.Acquire(context.Background(), testVideo, "en")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if tr.Source != engine.SourceTranscribed {
		t.Errorf("source = %s, want transcribed fallback", tr.Source)
	}
}

func TestAcquireEmptyTranscriptionIsError(t *testing.T) {
	audio := &fakeAudio{path: "/tmp/a.m4a"}
	speech := &fakeSpeech{text: "   "}
	a := NewAcquirer(&fakeSubtitles{}, audio, speech)

	_, err := a.Acquire(context.Background(), testVideo, "")
	if !errors.Is(err, engine.ErrTranscriptUnavailable) {
		t.Errorf("got %v, want ErrTranscriptUnavailable", err)
	}
	if !audio.cleanedUp {
		t.Error("temp dir leaked on empty transcription")
	}
}
