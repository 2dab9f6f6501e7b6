package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiCompleter implements Completer for any OpenAI-compatible provider
// (Groq, Cerebras) via a custom base URL.
type openaiCompleter struct {
	client   openai.Client
	model    string
	provider Provider
}

// newOpenAICompleter creates a completer for an OpenAI-compatible provider.
func newOpenAICompleter(provider Provider, apiKey, model string) (*openaiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s api key is empty", provider)
	}
	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
	}
	if model == "" {
		switch provider {
		case ProviderGroq:
			model = DefaultGroqModels[0]
		case ProviderCerebras:
			model = DefaultCerebrasModels[0]
		}
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)
	return &openaiCompleter{client: client, model: model, provider: provider}, nil
}

func (o *openaiCompleter) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(float64(req.Temperature)),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "completion call failed",
			"provider", o.provider,
			"model", o.model,
			"prompt_length", len(req.Prompt),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", wrapCallError(fmt.Errorf("chat completion: %w", err), o.provider, o.model, 0)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", wrapCallError(errors.New("empty response from model"), o.provider, o.model, 0)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", wrapCallError(errors.New("model returned no text"), o.provider, o.model, 0)
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "completion succeeded",
			"provider", o.provider,
			"model", o.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"duration_ms", duration.Milliseconds())
	}

	return text, nil
}

func (o *openaiCompleter) Provider() Provider { return o.provider }

// Close releases resources. The openai-go client has no cleanup.
func (o *openaiCompleter) Close() error { return nil }
