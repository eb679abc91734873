// go_tube — YouTube channel content MCP server.
//
// Exposes three MCP tools: channel_metadata, latest_videos_summary,
// videos_by_timerange. Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/tubeserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_tube",
		slog.String("port", mcpPort),
		slog.String("provider", engine.Cfg.AIProvider),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_tube",
		Version: version,
	}, nil)

	deps, err := tubeserver.NewDeps(context.Background())
	if err != nil {
		slog.Error("pipeline init failed", slog.Any("error", err))
		os.Exit(1)
	}
	tubeserver.RegisterTools(server, deps)
	slog.Info("tools registered", slog.Int("count", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_tube",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		YouTubeAPIKey: env.Str("YOUTUBE_API_KEY", ""),

		AIProvider:      env.Str("AI_PROVIDER", "openai"),
		SummaryModel:    env.Str("SUMMARY_MODEL", ""),
		SummaryLanguage: env.Str("SUMMARY_LANGUAGE", ""),
		OpenAIAPIKey:    env.Str("OPENAI_API_KEY", ""),
		DeepSeekAPIKey:  env.Str("DEEPSEEK_API_KEY", ""),
		LLMAPIKey:       env.Str("LLM_API_KEY", ""),
		LLMAPIBase:      env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:        env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:  env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:    env.Int("LLM_MAX_TOKENS", 8192),

		TempDir:       env.Str("TEMP_DIR", os.TempDir()),
		YtdlpPath:     env.Str("YTDLP_PATH", "yt-dlp"),
		FfmpegPath:    env.Str("FFMPEG_PATH", "ffmpeg"),
		AudioTimeout:  env.Duration("AUDIO_TIMEOUT", 10*time.Minute),
		WhisperAPIKey: env.Str("WHISPER_API_KEY", ""),

		MaxConcurrentVideos: env.Int("MAX_CONCURRENT_VIDEOS", 3),
		MaxChunkChars:       env.Int("MAX_CHUNK_CHARS", 48000),

		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),

		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},

		ListingLimiter:    rate.NewLimiter(rate.Limit(env.Float("YT_API_RATE", 8)), 8),
		TranscribeLimiter: rate.NewLimiter(rate.Limit(env.Float("TRANSCRIBE_RATE", 0.5)), 1),
		SummarizeLimiter:  rate.NewLimiter(rate.Limit(env.Float("SUMMARIZE_RATE", 2)), 2),
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
