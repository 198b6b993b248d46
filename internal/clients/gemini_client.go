package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// GeminiClient generates reports with the Gemini API. Like OpenAIClient it
// takes the key per call.
type GeminiClient struct {
	model string
	// baseURL overrides the API endpoint when set.
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(model string) *GeminiClient {
	if model == "" {
		model = DEFAULT_GEMINI_MODEL
	}
	slog.Info("[GeminiClient] Initializing client",
		slog.String("model", model),
		slog.Duration("timeout", LLM_REQUEST_TIMEOUT))
	return &GeminiClient{
		model:      model,
		httpClient: &http.Client{Timeout: LLM_REQUEST_TIMEOUT},
	}
}

func (c *GeminiClient) Provider() string { return PROVIDER_GEMINI }

func (c *GeminiClient) Generate(ctx context.Context, prompt, apiKey string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: c.baseURL,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	slog.Info("[GeminiClient] Completion received",
		slog.String("model", c.model),
		slog.Int("length", len(text)),
		slog.Duration("elapsed", time.Since(start)))
	return text, nil
}
