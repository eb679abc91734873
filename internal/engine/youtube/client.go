// Package youtube implements channel resolution, video listing, and caption
// retrieval against the YouTube Data API v3 and the Innertube endpoints.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Client wraps the Data API service shared by the resolver and lister.
type Client struct {
	svc *yt.Service
}

// NewClient builds a Data API client from the configured API key.
func NewClient(ctx context.Context) (*Client, error) {
	if engine.Cfg.YouTubeAPIKey == "" {
		return nil, fmt.Errorf("%w: YOUTUBE_API_KEY not set", engine.ErrInvalidArgument)
	}
	svc, err := yt.NewService(ctx, option.WithAPIKey(engine.Cfg.YouTubeAPIKey))
	if err != nil {
		return nil, &engine.UpstreamError{Op: "init", Err: err}
	}
	return &Client{svc: svc}, nil
}

// waitListing blocks on the Data API rate budget when one is configured.
func waitListing(ctx context.Context) error {
	if engine.Cfg.ListingLimiter == nil {
		return nil
	}
	return engine.Cfg.ListingLimiter.Wait(ctx)
}

// isNotFound reports whether err is a Data API 404.
func isNotFound(err error) bool {
	var ge *googleapi.Error
	return errors.As(err, &ge) && ge.Code == http.StatusNotFound
}

// classifyAPI keeps rate-limit and transient Data API failures
// retryable-shaped for RetryDo; everything else passes through.
func classifyAPI(err error) error {
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		switch ge.Code {
		case http.StatusTooManyRequests:
			return engine.RateLimitError()
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return engine.StatusError(ge.Code)
		}
	}
	return err
}
