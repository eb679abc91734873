package transcript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Whisper transcription rejects files above 25 MB. Larger audio is
// recompressed with ffmpeg first (speech survives 32 kbps mono fine).
const maxAudioBytes = 25 << 20

// Whisper transcribes audio files through the OpenAI speech-to-text API.
type Whisper struct {
	client *openai.Client

	// compress shrinks an oversized audio file. Overridable in tests.
	compress func(ctx context.Context, srcPath string) (string, error)
}

func NewWhisper() (*Whisper, error) {
	key := engine.Cfg.WhisperAPIKey
	if key == "" {
		return nil, fmt.Errorf("%w: transcription API key not set", engine.ErrInvalidArgument)
	}
	return &Whisper{client: openai.NewClient(key), compress: compressAudio}, nil
}

// Transcribe converts an audio file to text. lang is a base language tag
// hint ("en", "zh"); empty means autodetect.
func (w *Whisper) Transcribe(ctx context.Context, filePath, lang string) (string, error) {
	filePath, err := w.prepareAudio(ctx, filePath)
	if err != nil {
		return "", err
	}

	if engine.Cfg.TranscribeLimiter != nil {
		if err := engine.Cfg.TranscribeLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	engine.IncrTranscriptions()

	resp, err := engine.RetryDo(ctx, engine.ProviderRetryConfig, func() (openai.AudioResponse, error) {
		resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			FilePath: filePath,
			Language: lang,
		})
		if err != nil {
			return openai.AudioResponse{}, classifyOpenAIError(err)
		}
		return resp, nil
	})
	if err != nil {
		return "", &engine.ProviderError{
			Provider: "whisper",
			Quota:    engine.IsRateLimited(err),
			Err:      err,
		}
	}
	return resp.Text, nil
}

// prepareAudio returns a path to an audio file under the API size limit,
// recompressing oversized input in place of the original.
func (w *Whisper) prepareAudio(ctx context.Context, filePath string) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: audio file: %v", engine.ErrTranscriptUnavailable, err)
	}
	if info.Size() <= maxAudioBytes {
		return filePath, nil
	}
	if w.compress == nil {
		return "", fmt.Errorf("%w: audio file %d bytes exceeds transcription limit",
			engine.ErrTranscriptUnavailable, info.Size())
	}

	slog.Info("transcribe: compressing oversized audio",
		slog.String("file", filepath.Base(filePath)),
		slog.Int64("bytes", info.Size()))
	compressed, err := w.compress(ctx, filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", engine.ErrTranscriptUnavailable, err)
	}
	info, err = os.Stat(compressed)
	if err != nil {
		return "", fmt.Errorf("%w: compressed audio: %v", engine.ErrTranscriptUnavailable, err)
	}
	if info.Size() > maxAudioBytes {
		return "", fmt.Errorf("%w: audio still %d bytes after compression",
			engine.ErrTranscriptUnavailable, info.Size())
	}
	return compressed, nil
}

func ffmpegPath() string {
	if engine.Cfg.FfmpegPath != "" {
		return engine.Cfg.FfmpegPath
	}
	return "ffmpeg"
}

// compressAudio re-encodes srcPath next to itself as 32 kbps mono 16 kHz
// mp3 and removes the original. The output stays in the per-video scratch
// directory, so the downloader's cleanup still covers it.
func compressAudio(ctx context.Context, srcPath string) (string, error) {
	ext := filepath.Ext(srcPath)
	dst := strings.TrimSuffix(srcPath, ext) + "_compressed.mp3"

	cmd := exec.CommandContext(ctx, ffmpegPath(),
		"-i", srcPath,
		"-b:a", "32k",
		"-ac", "1",
		"-ar", "16000",
		"-y",
		dst)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("ffmpeg %s: %s", filepath.Base(srcPath), engine.Truncate(msg, 512))
	}
	_ = os.Remove(srcPath)
	return dst, nil
}

// classifyOpenAIError keeps 429/5xx retryable-shaped for RetryDo.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return engine.RateLimitError()
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return engine.StatusError(apiErr.HTTPStatusCode)
		}
	}
	return err
}
