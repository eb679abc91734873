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
	defaultRangeVideos = 20
	maxRangeVideos     = 100
)

func registerTimeRangeVideos(server *mcp.Server, deps *Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "videos_by_timerange",
		Description: "Fetch and summarize a YouTube channel's videos published between two calendar dates (inclusive). Same transcript and summarization behavior as latest_videos_summary, capped by max_videos with newest videos first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.TimeRangeVideosInput) (*mcp.CallToolResult, engine.ChannelSummaryOutput, error) {
		if input.Channel == "" {
			return nil, engine.ChannelSummaryOutput{}, fmt.Errorf("channel is required")
		}
		if input.StartDate == "" || input.EndDate == "" {
			return nil, engine.ChannelSummaryOutput{}, fmt.Errorf("start_date and end_date are required")
		}

		start, end, err := toolutil.ParseDateRange(input.StartDate, input.EndDate)
		if err != nil {
			return nil, engine.ChannelSummaryOutput{}, err
		}
		maxVideos := toolutil.ClampCount(input.MaxVideos, defaultRangeVideos, maxRangeVideos)
		language := input.Language
		if language == "" {
			language = engine.Cfg.SummaryLanguage
		}

		cacheKey := engine.CacheKey("videos_by_timerange", input.Channel,
			input.StartDate, input.EndDate, strconv.Itoa(maxVideos),
			input.Provider, input.Model, language,
			strconv.FormatBool(input.IncludeTranscript))
		if out, ok := engine.CacheLoadJSON[engine.ChannelSummaryOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		result, err := deps.Pipeline.Run(ctx, input.Channel,
			engine.Selection{Start: start, End: end, MaxVideos: maxVideos},
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
		out.StartDate = input.StartDate
		out.EndDate = input.EndDate
		slog.Info("videos_by_timerange: done",
			slog.String("channel", out.Channel.Title),
			slog.String("start", input.StartDate),
			slog.String("end", input.EndDate),
			slog.Int("processed", out.VideosProcessed),
			slog.Int("failed", out.VideosFailed))

		if out.VideosFailed == 0 {
			engine.CacheStoreJSON(ctx, cacheKey, out)
		}
		return nil, out, nil
	})
}
