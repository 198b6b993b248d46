package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const REPORT_FILE_NAME = "marketing_insight.md"

var ErrMissingAPIKey = errors.New("insight: api key is required")

// Generator is a text-generation backend. It is called once per report
// and never retried.
type Generator interface {
	Generate(ctx context.Context, prompt, apiKey string) (string, error)
}

// Report is a generated marketing report.
type Report struct {
	Markdown string
	HTML     string
	Elapsed  time.Duration
}

// Draft builds the prompt from data and asks gen for the report. Without
// an API key the generator is not called and ErrMissingAPIKey is returned.
func Draft(ctx context.Context, gen Generator, data PromptData, apiKey string) (*Report, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	start := time.Now()
	text, err := gen.Generate(ctx, BuildPrompt(data), apiKey)
	if err != nil {
		slog.Error("[Insight] Report generation failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	md := cleanReport(text)
	slog.Info("[Insight] Report generated",
		slog.Int("length", len(md)),
		slog.Duration("elapsed", time.Since(start)))
	return &Report{Markdown: md, HTML: RenderHTML(md), Elapsed: time.Since(start)}, nil
}

// cleanReport strips a markdown code fence wrapped around the whole
// response, which some models add.
func cleanReport(response string) string {
	cleaned := strings.TrimSpace(response)
	for _, fence := range []string{"```markdown", "```md", "```"} {
		if strings.HasPrefix(cleaned, fence) && strings.HasSuffix(cleaned, "```") && len(cleaned) > len(fence)+3 {
			cleaned = strings.TrimPrefix(cleaned, fence)
			cleaned = strings.TrimSuffix(cleaned, "```")
			return strings.TrimSpace(cleaned)
		}
	}
	return cleaned
}

// RenderHTML converts report markdown to sanitized HTML for display.
func RenderHTML(md string) string {
	unsafe := blackfriday.Run([]byte(md))
	return string(bluemonday.UGCPolicy().SanitizeBytes(unsafe))
}

// UserMessage is the text shown when a report could not be produced.
func UserMessage(err error) string {
	if errors.Is(err, ErrMissingAPIKey) {
		return "API Key를 입력하면 AI 마케팅 인사이트 보고서를 생성할 수 있습니다."
	}
	return fmt.Sprintf("오류: %v\nAPI Key를 확인해주세요.", err)
}
