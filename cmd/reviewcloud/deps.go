package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spacesedan/reviewcloud/config"
	"github.com/spacesedan/reviewcloud/internal/analysis"
	"github.com/spacesedan/reviewcloud/internal/clients"
	"github.com/spacesedan/reviewcloud/internal/lexicon"
	"github.com/spacesedan/reviewcloud/internal/monitoring"
	"github.com/spacesedan/reviewcloud/internal/nlp"
	"github.com/spacesedan/reviewcloud/internal/processing"
	"github.com/spacesedan/reviewcloud/internal/wordcloud"
)

// components are the long-lived pieces shared by every run.
type components struct {
	service       *analysis.Service
	metrics       *monitoring.Metrics
	taggerHealthy *atomic.Bool
}

// buildComponents wires the analysis service. With a tagger endpoint the
// remote analyzer is used and its health is polled until ctx is done.
func buildComponents(ctx context.Context, s config.Settings) (*components, error) {
	metrics := monitoring.NewMetrics()

	var tagger nlp.Tagger = nlp.NewRuleTagger()
	var taggerHealthy *atomic.Bool
	if s.TaggerEndpoint != "" {
		client, err := clients.GetTaggerClient(s.TaggerEndpoint, s.Env)
		if err != nil {
			return nil, err
		}
		tagger = client
		taggerHealthy = &atomic.Bool{}
		go monitoring.MonitorTaggerHealth(ctx, client, taggerHealthy, monitoring.HEALTHCHECK_INTERVAL)
	} else {
		slog.Info("[Main] Using built-in rule tagger")
	}

	font, err := wordcloud.LoadFont(s.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	slog.Info("[Main] Word cloud font loaded",
		slog.String("font", font.Name),
		slog.Bool("hangul", font.Hangul))
	renderer := wordcloud.NewRenderer(wordcloud.NewSpiralLayout(font), font)

	llm, err := clients.NewLLMClient(s.LLMProvider, s.LLMModel)
	if err != nil {
		return nil, err
	}

	pipeline := processing.NewPipeline(lexicon.Default(), tagger, metrics)
	service := analysis.NewService(pipeline, renderer, metrics.InstrumentGenerator(llm.Provider(), llm), llm.Provider(), metrics)
	return &components{service: service, metrics: metrics, taggerHealthy: taggerHealthy}, nil
}
