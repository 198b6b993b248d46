package clients

import (
	"context"
	"fmt"
	"strings"
)

// LLMClient is a report generator that knows its provider name.
type LLMClient interface {
	Provider() string
	Generate(ctx context.Context, prompt, apiKey string) (string, error)
}

// NewLLMClient picks the client for provider. An empty model selects the
// provider default.
func NewLLMClient(provider, model string) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", PROVIDER_GEMINI:
		return NewGeminiClient(model), nil
	case PROVIDER_OPENAI:
		return NewOpenAIClient(model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
