package summarize

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go-kit/llm"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// gemini drives an OpenAI-compatible gateway (Gemini, OpenRouter, a local
// server) through the go-kit llm client configured via LLM_API_BASE.
type gemini struct {
	model  string
	client *llm.Client
}

func newGemini(model string) (*gemini, error) {
	if engine.Cfg.LLMAPIKey == "" || engine.Cfg.LLMAPIBase == "" {
		return nil, fmt.Errorf("%w: LLM_API_KEY and LLM_API_BASE required for gemini provider",
			engine.ErrInvalidArgument)
	}
	if model == "" {
		model = engine.Cfg.LLMModel
	}

	opts := []llm.Option{}
	if engine.Cfg.LLMMaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(engine.Cfg.LLMMaxTokens))
	}
	if engine.Cfg.LLMTemperature > 0 {
		opts = append(opts, llm.WithTemperature(engine.Cfg.LLMTemperature))
	}
	if engine.Cfg.HTTPClient != nil {
		opts = append(opts, llm.WithHTTPClient(engine.Cfg.HTTPClient))
	}

	return &gemini{
		model:  model,
		client: llm.NewClient(engine.Cfg.LLMAPIBase, engine.Cfg.LLMAPIKey, model, opts...),
	}, nil
}

func (p *gemini) Name() string  { return ProviderGemini }
func (p *gemini) Model() string { return p.model }

// Complete reports zero token usage; the llm client does not surface it.
func (p *gemini) Complete(ctx context.Context, system, user string) (string, int, error) {
	if engine.Cfg.SummarizeLimiter != nil {
		if err := engine.Cfg.SummarizeLimiter.Wait(ctx); err != nil {
			return "", 0, err
		}
	}

	engine.IncrLLMCalls()

	text, err := engine.RetryDo(ctx, engine.ProviderRetryConfig, func() (string, error) {
		return p.client.Complete(ctx, system, user)
	})
	if err != nil {
		engine.IncrLLMErrors()
		return "", 0, &engine.ProviderError{
			Provider: ProviderGemini,
			Quota:    engine.IsRateLimited(err),
			Err:      err,
		}
	}
	return text, 0, nil
}
