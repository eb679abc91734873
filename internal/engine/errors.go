package engine

import (
	"errors"
	"fmt"
)

// Error taxonomy for the pipeline. Request-level failures (channel not found,
// invalid range, listing failure) abort the whole request; video-level
// failures (transcript, provider) become VideoError entries in the result.

var (
	// ErrChannelNotFound indicates no channel matches the given handle.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrInvalidRange indicates start > end in a time-range query.
	ErrInvalidRange = errors.New("invalid time range: start after end")

	// ErrInvalidArgument indicates a caller input violates a precondition.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTranscriptUnavailable indicates neither subtitles nor transcription
	// yielded text for a video.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
)

// UpstreamError wraps a metadata/listing provider failure.
type UpstreamError struct {
	Op  string // "resolve", "list", "search"
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ProviderError wraps a summarization or transcription backend failure after
// the local retry budget is exhausted. Quota marks rate-limit/quota signals
// so the caller can distinguish them from hard failures.
type ProviderError struct {
	Provider string
	Quota    bool
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Quota {
		return fmt.Sprintf("provider %s: quota exceeded: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsQuotaExceeded reports whether err is a provider quota/rate-limit failure.
func IsQuotaExceeded(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Quota
}
