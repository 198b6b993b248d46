package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/processing"
	"github.com/spacesedan/reviewcloud/internal/sentiment"
)

const NAMESPACE = "reviewcloud"

const (
	OUTCOME_SUCCESS = "success"
	OUTCOME_ERROR   = "error"
	OUTCOME_SKIPPED = "skipped"
)

// Metrics owns a private registry so tests and multiple servers never
// collide on the global one.
type Metrics struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	reviews       *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	renders       *prometheus.CounterVec
	llmRequests   *prometheus.CounterVec
	llmDuration   *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "reviews_total",
			Help:      "Classified reviews by sentiment and classification mode.",
		}, []string{"mode", "sentiment"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "stage_duration_seconds",
			Help:      "Time spent building one bucket's frequency table.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "wordcloud_renders_total",
			Help:      "Word cloud renders by bucket and outcome.",
		}, []string{"bucket", "outcome"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "llm_requests_total",
			Help:      "Report generation requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "llm_request_duration_seconds",
			Help:      "Report generation latency.",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 40, 90},
		}, []string{"provider"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runs, m.reviews, m.stageDuration, m.renders, m.llmRequests, m.llmDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRun(err error) {
	m.runs.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveRender(bucket models.Bucket, err error) {
	m.renders.WithLabelValues(string(bucket), outcome(err)).Inc()
}

// ObserveStage implements processing.Observer.
func (m *Metrics) ObserveStage(stage processing.Stage, elapsed time.Duration) {
	m.stageDuration.WithLabelValues(stage.String()).Observe(elapsed.Seconds())
}

// ObserveReviews implements processing.Observer.
func (m *Metrics) ObserveReviews(mode sentiment.Mode, reviews []models.Review) {
	counts := make(map[models.Sentiment]int, 3)
	for _, r := range reviews {
		counts[r.Sentiment]++
	}
	for s, n := range counts {
		m.reviews.WithLabelValues(string(mode), string(s)).Add(float64(n))
	}
}

func outcome(err error) string {
	if err != nil {
		return OUTCOME_ERROR
	}
	return OUTCOME_SUCCESS
}

// Generator matches insight.Generator without importing it.
type Generator interface {
	Generate(ctx context.Context, prompt, apiKey string) (string, error)
}

type instrumentedGenerator struct {
	provider string
	next     Generator
	metrics  *Metrics
}

// InstrumentGenerator counts and times every call to next.
func (m *Metrics) InstrumentGenerator(provider string, next Generator) Generator {
	return &instrumentedGenerator{provider: provider, next: next, metrics: m}
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt, apiKey string) (string, error) {
	start := time.Now()
	text, err := g.next.Generate(ctx, prompt, apiKey)
	g.metrics.llmDuration.WithLabelValues(g.provider).Observe(time.Since(start).Seconds())
	g.metrics.llmRequests.WithLabelValues(g.provider, outcome(err)).Inc()
	return text, err
}

// ObserveSkippedReport records a report that was not requested because no
// API key was given.
func (m *Metrics) ObserveSkippedReport(provider string) {
	m.llmRequests.WithLabelValues(provider, OUTCOME_SKIPPED).Inc()
}
