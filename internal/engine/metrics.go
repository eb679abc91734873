package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ChannelLookups     atomic.Int64
	VideoListings      atomic.Int64
	SubtitleFetches    atomic.Int64
	AudioDownloads     atomic.Int64
	Transcriptions     atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	VideosSummarized   atomic.Int64
	VideoFailures      atomic.Int64
	PipelineRuns       atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"channel_lookups":   metrics.ChannelLookups.Load(),
		"video_listings":    metrics.VideoListings.Load(),
		"subtitle_fetches":  metrics.SubtitleFetches.Load(),
		"audio_downloads":   metrics.AudioDownloads.Load(),
		"transcriptions":    metrics.Transcriptions.Load(),
		"llm_calls":         metrics.LLMCalls.Load(),
		"llm_errors":        metrics.LLMErrors.Load(),
		"videos_summarized": metrics.VideosSummarized.Load(),
		"video_failures":    metrics.VideoFailures.Load(),
		"pipeline_runs":     metrics.PipelineRuns.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"channel_lookups", "video_listings",
		"subtitle_fetches", "audio_downloads", "transcriptions",
		"llm_calls", "llm_errors",
		"videos_summarized", "video_failures", "pipeline_runs",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages (youtube, transcript, summarize).
func IncrChannelLookups()   { metrics.ChannelLookups.Add(1) }
func IncrVideoListings()    { metrics.VideoListings.Add(1) }
func IncrSubtitleFetches()  { metrics.SubtitleFetches.Add(1) }
func IncrAudioDownloads()   { metrics.AudioDownloads.Add(1) }
func IncrTranscriptions()   { metrics.Transcriptions.Add(1) }
func IncrLLMCalls()         { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()        { metrics.LLMErrors.Add(1) }
func IncrVideosSummarized() { metrics.VideosSummarized.Add(1) }
func IncrVideoFailures()    { metrics.VideoFailures.Add(1) }
func IncrPipelineRuns()     { metrics.PipelineRuns.Add(1) }
