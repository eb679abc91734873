package engine

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey string

	// Summarization backend selection and credentials.
	AIProvider      string // "openai", "deepseek", "gemini"
	SummaryModel    string // backend-specific model id ("" = provider default)
	SummaryLanguage string // default target language ("" = transcript language)
	OpenAIAPIKey    string
	DeepSeekAPIKey  string
	LLMAPIKey       string // gemini via OpenAI-compatible endpoint
	LLMAPIBase      string
	LLMModel        string
	LLMTemperature  float64
	LLMMaxTokens    int

	// Transcript acquisition.
	TempDir       string // root for per-video scoped audio downloads
	YtdlpPath     string // yt-dlp executable ("" = "yt-dlp" on PATH)
	FfmpegPath    string // ffmpeg executable ("" = "ffmpeg" on PATH)
	AudioTimeout  time.Duration
	WhisperAPIKey string // defaults to OpenAIAPIKey when empty

	// Pipeline.
	MaxConcurrentVideos int // bounded parallelism for per-video work
	MaxChunkChars       int // per-backend transcript budget before chunking

	// Cache (tool layer only — the core pipeline never caches).
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient *http.Client

	// Process-wide rate-limit budgets, one per external dependency.
	ListingLimiter    *rate.Limiter
	TranscribeLimiter *rate.Limiter
	SummarizeLimiter  *rate.Limiter
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (youtube, transcript,
// summarize). Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.MaxConcurrentVideos <= 0 {
		c.MaxConcurrentVideos = 3
	}
	if c.MaxChunkChars <= 0 {
		c.MaxChunkChars = 48000
	}
	if c.WhisperAPIKey == "" {
		c.WhisperAPIKey = c.OpenAIAPIKey
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	cfg = c
	Cfg = &cfg
}
