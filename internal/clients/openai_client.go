package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient generates reports with the chat completions API. The key is
// supplied per call, so an SDK client is built for every request.
type OpenAIClient struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(model string) *OpenAIClient {
	if model == "" {
		model = DEFAULT_OPENAI_MODEL
	}
	slog.Info("[OpenAIClient] Initializing client",
		slog.String("model", model),
		slog.Duration("timeout", LLM_REQUEST_TIMEOUT))
	return &OpenAIClient{
		model:      model,
		httpClient: &http.Client{Timeout: LLM_REQUEST_TIMEOUT},
	}
}

func (c *OpenAIClient) Provider() string { return PROVIDER_OPENAI }

func (c *OpenAIClient) Generate(ctx context.Context, prompt, apiKey string) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	slog.Info("[OpenAIClient] Completion received",
		slog.String("model", c.model),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
		slog.Int64("completion_tokens", resp.Usage.CompletionTokens),
		slog.Duration("elapsed", time.Since(start)))
	return resp.Choices[0].Message.Content, nil
}
