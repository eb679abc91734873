package tubeserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

func registerChannelMetadata(server *mcp.Server, deps *Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_metadata",
		Description: "Look up a YouTube channel by handle (with or without @) or channel ID. Returns identity and statistics: title, description, subscriber count, video count, total views, creation date.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.ChannelMetadataInput) (*mcp.CallToolResult, engine.ChannelMetadataOutput, error) {
		if input.Channel == "" {
			return nil, engine.ChannelMetadataOutput{}, fmt.Errorf("channel is required")
		}

		cacheKey := engine.CacheKey("channel_metadata", input.Channel)
		if out, ok := engine.CacheLoadJSON[engine.ChannelMetadataOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		ref, err := deps.Resolver.Resolve(ctx, input.Channel)
		if err != nil {
			return nil, engine.ChannelMetadataOutput{}, err
		}

		out := engine.ChannelMetadataOutput{Channel: *ref}
		engine.CacheStoreJSON(ctx, cacheKey, out)
		return nil, out, nil
	})
}
