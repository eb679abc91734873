// Package summarize turns transcripts into structured summaries through
// pluggable chat-completion backends.
package summarize

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// ChatProvider is one chat-completion backend. Complete returns the raw
// assistant text and the total token usage the backend reported (0 when the
// backend does not report usage).
type ChatProvider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, system, user string) (text string, tokens int, err error)
}

// Supported provider names.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)

const deepSeekBaseURL = "https://api.deepseek.com/v1"

// Default models per provider, used when no model override is given.
const (
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultDeepSeekModel = "deepseek-chat"
)

// NewProvider builds the named backend. Empty name selects the configured
// default provider; empty model selects the provider's default model.
func NewProvider(name, model string) (ChatProvider, error) {
	if name == "" {
		name = engine.Cfg.AIProvider
	}
	if name == "" {
		name = ProviderOpenAI
	}
	if model == "" {
		model = engine.Cfg.SummaryModel
	}

	switch name {
	case ProviderOpenAI:
		if engine.Cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", engine.ErrInvalidArgument)
		}
		if model == "" {
			model = defaultOpenAIModel
		}
		return newOpenAICompatible(ProviderOpenAI, engine.Cfg.OpenAIAPIKey, "", model), nil
	case ProviderDeepSeek:
		if engine.Cfg.DeepSeekAPIKey == "" {
			return nil, fmt.Errorf("%w: DEEPSEEK_API_KEY not set", engine.ErrInvalidArgument)
		}
		if model == "" {
			model = defaultDeepSeekModel
		}
		return newOpenAICompatible(ProviderDeepSeek, engine.Cfg.DeepSeekAPIKey, deepSeekBaseURL, model), nil
	case ProviderGemini:
		return newGemini(model)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", engine.ErrInvalidArgument, name)
	}
}
