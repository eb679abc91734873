package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Summarizer produces a structured summary per video, chunking transcripts
// that exceed the configured character budget.
type Summarizer struct {
	// NewBackend builds the provider for one request. Overridable in tests.
	NewBackend func(provider, model string) (ChatProvider, error)
}

func NewSummarizer() *Summarizer {
	return &Summarizer{NewBackend: NewProvider}
}

// Summarize implements engine.Summarizer.
func (s *Summarizer) Summarize(ctx context.Context, video engine.VideoRef, transcript *engine.Transcript, opts engine.SummaryOptions) (*engine.Summary, error) {
	backend, err := s.NewBackend(opts.Provider, opts.Model)
	if err != nil {
		return nil, err
	}

	content, tokens, err := s.summarizeText(ctx, backend, video, transcript.Text, opts.Language)
	if err != nil {
		return nil, err
	}

	out := &engine.Summary{
		VideoID:            video.VideoID,
		Title:              video.Title,
		URL:                video.URL(),
		PublishedAt:        video.PublishedAt,
		DurationSeconds:    video.DurationSeconds,
		ViewCount:          video.ViewCount,
		Content:            *content,
		Provider:           backend.Name(),
		Model:              backend.Model(),
		TokensUsed:         tokens,
		TranscriptSource:   transcript.Source,
		TranscriptLanguage: transcript.Language,
	}
	if opts.IncludeTranscript {
		out.FullTranscript = transcript.Text
	}
	return out, nil
}

func (s *Summarizer) summarizeText(ctx context.Context, backend ChatProvider, video engine.VideoRef, text, lang string) (*engine.SummaryContent, int, error) {
	budget := engine.Cfg.MaxChunkChars

	if len(text) <= budget {
		return completeJSON(ctx, backend, buildSummaryPrompt(video.Title, video.Description, lang, text))
	}

	chunks, err := engine.SplitText(text, budget)
	if err != nil {
		return nil, 0, err
	}
	slog.Debug("summarize: chunking transcript",
		slog.String("title", video.Title),
		slog.Int("chars", len(text)),
		slog.Int("chunks", len(chunks)))

	totalTokens := 0
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		partial, tokens, err := completeJSON(ctx, backend,
			buildChunkPrompt(video.Title, chunk.Index+1, len(chunks), chunk.Text))
		if err != nil {
			return nil, totalTokens, fmt.Errorf("chunk %d/%d: %w", chunk.Index+1, len(chunks), err)
		}
		totalTokens += tokens
		parts = append(parts, partialText(partial))
	}

	merged, tokens, err := completeJSON(ctx, backend, buildMergePrompt(video.Title, video.Description, lang, parts))
	if err != nil {
		return nil, totalTokens, fmt.Errorf("merge: %w", err)
	}
	return merged, totalTokens + tokens, nil
}

// completeJSON runs one completion and decodes the structured contract.
// Unparsable output degrades to a plain-text summary instead of failing the
// video.
func completeJSON(ctx context.Context, backend ChatProvider, prompt string) (*engine.SummaryContent, int, error) {
	raw, tokens, err := backend.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, 0, err
	}

	raw = stripFences(raw)
	var content engine.SummaryContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil || content.Summary == "" {
		slog.Debug("summarize: non-conforming completion, keeping raw text",
			slog.String("provider", backend.Name()))
		return &engine.SummaryContent{Summary: raw}, tokens, nil
	}
	return &content, tokens, nil
}

// partialText flattens a chunk's structured partial back into prose for the
// merge prompt.
func partialText(c *engine.SummaryContent) string {
	var sb strings.Builder
	sb.WriteString(c.Summary)
	for _, p := range c.KeyPoints {
		sb.WriteString("\n- ")
		sb.WriteString(p)
	}
	for _, h := range c.Highlights {
		sb.WriteString("\n> ")
		sb.WriteString(h)
	}
	if len(c.Topics) > 0 {
		sb.WriteString("\nTopics: ")
		sb.WriteString(strings.Join(c.Topics, ", "))
	}
	return sb.String()
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
