// Package tubeserver registers the channel content tools on an MCP server:
// channel_metadata, latest_videos_summary, videos_by_timerange.
package tubeserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/summarize"
	"github.com/anatolykoptev/go_tube/internal/engine/transcript"
	"github.com/anatolykoptev/go_tube/internal/engine/youtube"
)

// Deps holds the pipeline components shared by all tools.
type Deps struct {
	Resolver engine.ChannelResolver
	Pipeline *engine.Pipeline
}

// NewDeps wires the default production pipeline from the engine config.
func NewDeps(ctx context.Context) (*Deps, error) {
	client, err := youtube.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	resolver := youtube.NewResolver(client)

	var audio transcript.AudioSource
	var speech transcript.SpeechTranscriber
	if engine.Cfg.WhisperAPIKey != "" {
		whisper, err := transcript.NewWhisper()
		if err != nil {
			return nil, err
		}
		audio = youtube.NewAudioDownloader()
		speech = whisper
	}

	return &Deps{
		Resolver: resolver,
		Pipeline: &engine.Pipeline{
			Resolver:   resolver,
			Lister:     youtube.NewLister(client),
			Acquirer:   transcript.NewAcquirer(youtube.NewCaptions(), audio, speech),
			Summarizer: summarize.NewSummarizer(),
		},
	}, nil
}

// RegisterTools registers all channel content tools on the given MCP server.
func RegisterTools(server *mcp.Server, deps *Deps) {
	registerChannelMetadata(server, deps)
	registerLatestVideos(server, deps)
	registerTimeRangeVideos(server, deps)
}
