package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiCompleter implements Completer on Google's native Gemini SDK.
type geminiCompleter struct {
	client *genai.Client
	model  string
}

// newGeminiCompleter creates a Gemini-backed completer for one model.
func newGeminiCompleter(ctx context.Context, apiKey, model string) (*geminiCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultGeminiModels[0]
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &geminiCompleter{client: client, model: model}, nil
}

func (g *geminiCompleter) Complete(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxTokens),
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "completion call failed",
			"provider", ProviderGemini,
			"model", g.model,
			"prompt_length", len(req.Prompt),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", wrapCallError(fmt.Errorf("generate content: %w", err), ProviderGemini, g.model, 0)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", wrapCallError(errors.New("empty response from model"), ProviderGemini, g.model, 0)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", wrapCallError(errors.New("model returned no text"), ProviderGemini, g.model, 0)
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "completion succeeded",
			"provider", ProviderGemini,
			"model", g.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return text, nil
}

func (g *geminiCompleter) Provider() Provider { return ProviderGemini }

// Close releases resources. The current SDK does not require cleanup.
func (g *geminiCompleter) Close() error { return nil }
