package tubeserver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/toolutil"
)

const (
	defaultLatestCount = 5
	maxLatestCount     = 50
)

func registerLatestVideos(server *mcp.Server, deps *Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "latest_videos_summary",
		Description: "Fetch and summarize the latest N videos of a YouTube channel. Gets each video's transcript (published subtitles first, speech-to-text fallback) and produces a structured summary with key points, highlights, and topics. Per-video failures are reported without aborting the rest.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.LatestVideosInput) (*mcp.CallToolResult, engine.ChannelSummaryOutput, error) {
		if input.Channel == "" {
			return nil, engine.ChannelSummaryOutput{}, fmt.Errorf("channel is required")
		}
		count := toolutil.ClampCount(input.Count, defaultLatestCount, maxLatestCount)
		language := input.Language
		if language == "" {
			language = engine.Cfg.SummaryLanguage
		}

		cacheKey := engine.CacheKey("latest_videos_summary", input.Channel,
			strconv.Itoa(count), input.Provider, input.Model, language,
			strconv.FormatBool(input.IncludeTranscript))
		if out, ok := engine.CacheLoadJSON[engine.ChannelSummaryOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		result, err := deps.Pipeline.Run(ctx, input.Channel,
			engine.Selection{Latest: count},
			engine.SummaryOptions{
				Provider:          input.Provider,
				Model:             input.Model,
				Language:          language,
				IncludeTranscript: input.IncludeTranscript,
			})
		if err != nil {
			return nil, engine.ChannelSummaryOutput{}, err
		}

		out := engine.SummaryEnvelope(result)
		slog.Info("latest_videos_summary: done",
			slog.String("channel", out.Channel.Title),
			slog.Int("processed", out.VideosProcessed),
			slog.Int("failed", out.VideosFailed))

		// Partial failures are not cached so a retry can recover them.
		if out.VideosFailed == 0 {
			engine.CacheStoreJSON(ctx, cacheKey, out)
		}
		return nil, out, nil
	})
}
