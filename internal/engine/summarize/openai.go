package summarize

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// openAICompatible drives OpenAI and any backend speaking its chat API
// (DeepSeek exposes the same surface under a different base URL).
type openAICompatible struct {
	name   string
	model  string
	client *openai.Client
}

func newOpenAICompatible(name, apiKey, baseURL, model string) *openAICompatible {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if engine.Cfg.HTTPClient != nil {
		cfg.HTTPClient = engine.Cfg.HTTPClient
	}
	return &openAICompatible{
		name:   name,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (p *openAICompatible) Name() string  { return p.name }
func (p *openAICompatible) Model() string { return p.model }

func (p *openAICompatible) Complete(ctx context.Context, system, user string) (string, int, error) {
	if engine.Cfg.SummarizeLimiter != nil {
		if err := engine.Cfg.SummarizeLimiter.Wait(ctx); err != nil {
			return "", 0, err
		}
	}

	engine.IncrLLMCalls()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if engine.Cfg.LLMTemperature > 0 {
		req.Temperature = float32(engine.Cfg.LLMTemperature)
	}
	if engine.Cfg.LLMMaxTokens > 0 {
		req.MaxTokens = engine.Cfg.LLMMaxTokens
	}

	resp, err := engine.RetryDo(ctx, engine.ProviderRetryConfig, func() (openai.ChatCompletionResponse, error) {
		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return openai.ChatCompletionResponse{}, classifyAPIError(err)
		}
		return resp, nil
	})
	if err != nil {
		engine.IncrLLMErrors()
		return "", 0, &engine.ProviderError{
			Provider: p.name,
			Quota:    engine.IsRateLimited(err),
			Err:      err,
		}
	}

	if len(resp.Choices) == 0 {
		engine.IncrLLMErrors()
		return "", 0, &engine.ProviderError{Provider: p.name, Err: errors.New("empty completion")}
	}
	return resp.Choices[0].Message.Content, resp.Usage.TotalTokens, nil
}

// classifyAPIError keeps 429/5xx retryable-shaped for RetryDo.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return engine.RateLimitError()
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return engine.StatusError(apiErr.HTTPStatusCode)
		}
	}
	return err
}
