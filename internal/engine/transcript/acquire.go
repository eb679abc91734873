// Package transcript turns a video reference into plain transcript text,
// preferring published subtitles and falling back to speech-to-text.
package transcript

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/youtube"
)

// SubtitleSource lists and downloads a video's caption tracks.
type SubtitleSource interface {
	ListTracks(ctx context.Context, videoID string) ([]youtube.CaptionTrack, error)
	FetchTrack(ctx context.Context, track youtube.CaptionTrack) (string, error)
}

// AudioSource produces a local audio file for a video. The cleanup func
// removes everything the download created.
type AudioSource interface {
	Download(ctx context.Context, videoID string) (path string, cleanup func(), err error)
}

// SpeechTranscriber converts an audio file to text.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, filePath, lang string) (string, error)
}

// Acquirer implements the subtitle-first acquisition policy. Audio and
// Speech may be nil when transcription is not configured; subtitle-less
// videos then fail with ErrTranscriptUnavailable.
type Acquirer struct {
	Subtitles SubtitleSource
	Audio     AudioSource
	Speech    SpeechTranscriber
}

func NewAcquirer(subs SubtitleSource, audio AudioSource, speech SpeechTranscriber) *Acquirer {
	return &Acquirer{Subtitles: subs, Audio: audio, Speech: speech}
}

// Acquire returns the transcript for one video. Subtitles win when any
// usable track exists; transcription runs only when the video has no tracks
// at all. A subtitle download failure falls through to transcription too,
// since the alternative is failing the video outright.
func (a *Acquirer) Acquire(ctx context.Context, video engine.VideoRef, langHint string) (*engine.Transcript, error) {
	tracks, err := a.Subtitles.ListTracks(ctx, video.VideoID)
	if err != nil {
		slog.Warn("transcript: track listing failed",
			slog.String("video_id", video.VideoID), slog.Any("error", err))
	}

	if track, ok := youtube.PickTrack(tracks, langHint); ok {
		text, err := a.Subtitles.FetchTrack(ctx, track)
		if err == nil {
			text = engine.NormalizeWhitespace(text)
			if text != "" {
				slog.Debug("transcript: subtitles used",
					slog.String("video_id", video.VideoID),
					slog.String("lang", track.LanguageCode),
					slog.Bool("auto", track.Auto()))
				return &engine.Transcript{
					VideoID:  video.VideoID,
					Text:     text,
					Language: track.LanguageCode,
					Source:   engine.SourceSubtitle,
				}, nil
			}
		}
		slog.Warn("transcript: subtitle fetch failed, falling back to transcription",
			slog.String("video_id", video.VideoID), slog.Any("error", err))
	}

	return a.transcribe(ctx, video, langHint)
}

func (a *Acquirer) transcribe(ctx context.Context, video engine.VideoRef, langHint string) (*engine.Transcript, error) {
	if a.Audio == nil || a.Speech == nil {
		return nil, fmt.Errorf("%w: no subtitles and transcription not configured",
			engine.ErrTranscriptUnavailable)
	}

	audioPath, cleanup, err := a.Audio.Download(ctx, video.VideoID)
	if err != nil {
		return nil, fmt.Errorf("%w: audio download: %v", engine.ErrTranscriptUnavailable, err)
	}
	defer cleanup()

	lang := engine.BaseLang(langHint)
	text, err := a.Speech.Transcribe(ctx, audioPath, lang)
	if err != nil {
		return nil, err
	}
	text = engine.NormalizeWhitespace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: transcription produced no text", engine.ErrTranscriptUnavailable)
	}

	slog.Debug("transcript: transcribed",
		slog.String("video_id", video.VideoID), slog.String("lang", lang))
	return &engine.Transcript{
		VideoID:  video.VideoID,
		Text:     text,
		Language: lang,
		Source:   engine.SourceTranscribed,
	}, nil
}
