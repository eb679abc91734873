package youtube

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

const defaultAudioTimeout = 10 * time.Minute

// AudioDownloader extracts a video's audio track with yt-dlp for
// transcription. Each download lives in its own temp directory so cleanup
// is a single RemoveAll regardless of what yt-dlp left behind.
type AudioDownloader struct{}

func NewAudioDownloader() *AudioDownloader { return &AudioDownloader{} }

func ytdlpPath() string {
	if engine.Cfg.YtdlpPath != "" {
		return engine.Cfg.YtdlpPath
	}
	return "yt-dlp"
}

// Download fetches the audio track of videoID as m4a. The returned cleanup
// removes the whole scratch directory and never fails; callers must invoke
// it on every path once Download succeeds.
func (d *AudioDownloader) Download(ctx context.Context, videoID string) (path string, cleanup func(), err error) {
	engine.IncrAudioDownloads()

	dir, err := os.MkdirTemp(engine.Cfg.TempDir, "gotube-audio-*")
	if err != nil {
		return "", nil, fmt.Errorf("create audio dir: %w", err)
	}
	remove := func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("audio: temp cleanup failed", slog.String("dir", dir), slog.Any("error", err))
		}
	}
	defer func() {
		if err != nil {
			remove()
		}
	}()

	timeout := engine.Cfg.AudioTimeout
	if timeout <= 0 {
		timeout = defaultAudioTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outTemplate := filepath.Join(dir, "%(id)s.%(ext)s")
	args := []string{
		"--no-warnings",
		"--no-playlist",
		"-f", "bestaudio[ext=m4a]/bestaudio",
		"-x", "--audio-format", "m4a",
		"-o", outTemplate,
		"https://www.youtube.com/watch?v=" + videoID,
	}

	cmd := exec.CommandContext(cmdCtx, ytdlpPath(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("audio: downloading", slog.String("video_id", videoID), slog.String("dir", dir))
	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() != nil {
			return "", nil, fmt.Errorf("yt-dlp %s: %w", videoID, cmdCtx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", nil, fmt.Errorf("yt-dlp %s: %s", videoID, engine.Truncate(msg, 512))
	}

	path = filepath.Join(dir, videoID+".m4a")
	if _, err := os.Stat(path); err != nil {
		// Audio format conversion can be skipped for some sources; take
		// whatever single file yt-dlp produced.
		matches, _ := filepath.Glob(filepath.Join(dir, videoID+".*"))
		if len(matches) == 0 {
			return "", nil, fmt.Errorf("yt-dlp %s: no output file", videoID)
		}
		path = matches[0]
	}

	return path, remove, nil
}
