package engine

import "time"

// --- Core data model ---

// ChannelRef is a resolved channel identity plus metadata. Immutable once
// resolved; resolved lazily once per request.
type ChannelRef struct {
	Handle          string    `json:"handle"`
	ChannelID       string    `json:"channel_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CustomURL       string    `json:"custom_url,omitempty"`
	SubscriberCount uint64    `json:"subscriber_count"`
	VideoCount      uint64    `json:"video_count"`
	ViewCount       uint64    `json:"view_count"`
	PublishedAt     time.Time `json:"published_at"`
	Country         string    `json:"country,omitempty"`
}

// VideoRef identifies one video in a channel listing. Read-only downstream.
type VideoRef struct {
	VideoID              string    `json:"video_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description,omitempty"`
	ChannelTitle         string    `json:"channel_title,omitempty"`
	PublishedAt          time.Time `json:"published_at"`
	DurationSeconds      int64     `json:"duration_seconds"`
	ViewCount            uint64    `json:"view_count"`
	HasSubtitles         bool      `json:"has_subtitles"`
	DefaultAudioLanguage string    `json:"default_audio_language,omitempty"`
}

// URL returns the canonical watch URL for the video.
func (v VideoRef) URL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// TranscriptSource identifies how a transcript was obtained.
type TranscriptSource string

const (
	SourceSubtitle    TranscriptSource = "subtitle"
	SourceTranscribed TranscriptSource = "transcribed"
)

// Transcript is the full plain text of one video. Text is never empty on a
// successful acquisition; failure is an error, never an empty Transcript.
type Transcript struct {
	VideoID  string           `json:"video_id"`
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Source   TranscriptSource `json:"source"`
}

// Chunk is a bounded-size contiguous segment of a transcript.
type Chunk struct {
	Index         int    `json:"index"`
	Text          string `json:"text"`
	TokenEstimate int    `json:"token_estimate"`
}

// SummaryContent is the structured summary contract shared by all backends.
type SummaryContent struct {
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"key_points"`
	Highlights []string `json:"highlights,omitempty"`
	Topics     []string `json:"topics,omitempty"`
}

// Summary is the per-video result of a successful pipeline run.
type Summary struct {
	VideoID            string         `json:"video_id"`
	Title              string         `json:"title"`
	URL                string         `json:"url"`
	PublishedAt        time.Time      `json:"published_at"`
	DurationSeconds    int64          `json:"duration_seconds"`
	ViewCount          uint64         `json:"view_count"`
	Content            SummaryContent `json:"content"`
	Provider           string         `json:"provider"`
	Model              string         `json:"model,omitempty"`
	TokensUsed         int            `json:"tokens_used,omitempty"`
	TranscriptSource   TranscriptSource `json:"transcript_source"`
	TranscriptLanguage string         `json:"transcript_language,omitempty"`
	FullTranscript     string         `json:"full_transcript,omitempty"`
}

// VideoError is a per-video failure captured without aborting siblings.
type VideoError struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
	Reason  string `json:"reason"`
	Quota   bool   `json:"quota,omitempty"` // provider quota/rate-limit failure
}

// VideoOutcome holds exactly one of Summary or Error.
type VideoOutcome struct {
	Summary *Summary    `json:"summary,omitempty"`
	Error   *VideoError `json:"error,omitempty"`
}

// PipelineResult is the ordered per-video outcome list for one request.
// Order matches the lister's selection order; every selected video appears
// exactly once.
type PipelineResult struct {
	Channel  ChannelRef     `json:"channel"`
	Outcomes []VideoOutcome `json:"outcomes"`
}

// Summaries returns the successful outcomes in selection order.
func (r PipelineResult) Summaries() []Summary {
	out := make([]Summary, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Summary != nil {
			out = append(out, *o.Summary)
		}
	}
	return out
}

// Errors returns the failed outcomes in selection order.
func (r PipelineResult) Errors() []VideoError {
	var out []VideoError
	for _, o := range r.Outcomes {
		if o.Error != nil {
			out = append(out, *o.Error)
		}
	}
	return out
}

// --- Request types ---

// Selection picks videos for a pipeline run: latest-N when Latest > 0,
// otherwise the [Start, End) publication window truncated to MaxVideos.
type Selection struct {
	Latest    int
	Start     time.Time
	End       time.Time
	MaxVideos int
}

// SummaryOptions configures one summarization request.
type SummaryOptions struct {
	Provider          string // "" = configured default
	Model             string // "" = provider default
	Language          string // target output language ("" = transcript language)
	IncludeTranscript bool   // attach raw transcript to the result
}

// --- Tool input/output types ---

type ChannelMetadataInput struct {
	Channel string `json:"channel" jsonschema:"Channel handle (with or without @) or UC… channel ID"`
}

type ChannelMetadataOutput struct {
	Channel ChannelRef `json:"channel"`
}

type LatestVideosInput struct {
	Channel           string `json:"channel" jsonschema:"Channel handle (with or without @) or UC… channel ID"`
	Count             int    `json:"count,omitempty" jsonschema:"How many latest videos to summarize, 1-50 (default: 5)"`
	Provider          string `json:"provider,omitempty" jsonschema:"Summarization backend: openai, deepseek, gemini (default: configured)"`
	Model             string `json:"model,omitempty" jsonschema:"Model override for the chosen provider"`
	Language          string `json:"language,omitempty" jsonschema:"Target summary language (default: transcript language)"`
	IncludeTranscript bool   `json:"include_transcript,omitempty" jsonschema:"Attach the full transcript to each summary"`
}

type TimeRangeVideosInput struct {
	Channel           string `json:"channel" jsonschema:"Channel handle (with or without @) or UC… channel ID"`
	StartDate         string `json:"start_date" jsonschema:"Range start, YYYY-MM-DD (inclusive)"`
	EndDate           string `json:"end_date" jsonschema:"Range end, YYYY-MM-DD (inclusive)"`
	MaxVideos         int    `json:"max_videos,omitempty" jsonschema:"Cap on videos to process, 1-100 (default: 20)"`
	Provider          string `json:"provider,omitempty" jsonschema:"Summarization backend: openai, deepseek, gemini (default: configured)"`
	Model             string `json:"model,omitempty" jsonschema:"Model override for the chosen provider"`
	Language          string `json:"language,omitempty" jsonschema:"Target summary language (default: transcript language)"`
	IncludeTranscript bool   `json:"include_transcript,omitempty" jsonschema:"Attach the full transcript to each summary"`
}

// ChannelSummaryOutput is the shared result envelope of the summarization
// tools.
type ChannelSummaryOutput struct {
	Channel         ChannelRef   `json:"channel"`
	Summaries       []Summary    `json:"summaries"`
	Errors          []VideoError `json:"errors,omitempty"`
	VideosProcessed int          `json:"videos_processed"`
	VideosFailed    int          `json:"videos_failed"`

	// Set only by the time-range tool, echoing the requested window.
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// SummaryEnvelope builds the tool envelope from a pipeline result.
func SummaryEnvelope(r *PipelineResult) ChannelSummaryOutput {
	summaries := r.Summaries()
	errs := r.Errors()
	return ChannelSummaryOutput{
		Channel:         r.Channel,
		Summaries:       summaries,
		Errors:          errs,
		VideosProcessed: len(summaries),
		VideosFailed:    len(errs),
	}
}
