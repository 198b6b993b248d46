package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/spacesedan/reviewcloud/internal/ingest"
	"github.com/spacesedan/reviewcloud/internal/insight"
	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/processing"
	"github.com/spacesedan/reviewcloud/internal/sentiment"
	"github.com/spacesedan/reviewcloud/internal/store"
	"github.com/spacesedan/reviewcloud/internal/wordcloud"
)

// CloudRenderer draws one bucket's word cloud.
type CloudRenderer interface {
	Render(freq []models.TermCount, theme wordcloud.Theme) (*wordcloud.Image, error)
}

// RunObserver records run level outcomes. It may be nil.
type RunObserver interface {
	ObserveRun(err error)
	ObserveRender(bucket models.Bucket, err error)
	ObserveSkippedReport(provider string)
}

type Request struct {
	Table   *ingest.Table
	Columns ingest.Resolution
	Config  models.RunConfig
	// APIKey is used for this run only and never stored.
	APIKey string
}

// BucketResult is everything shown for one sentiment bucket. A render
// failure is kept on the bucket and does not affect the others.
type BucketResult struct {
	Bucket    models.Bucket
	Keywords  []models.TermCount
	Cloud     *wordcloud.Image
	RenderErr error
	CSV       []byte
}

func (b BucketResult) Label() string { return b.Bucket.Label() }

func (b BucketResult) HasKeywords() bool { return len(b.Keywords) > 0 }

type Outcome struct {
	Mode     sentiment.Mode
	Total    int
	Positive int
	Negative int
	Buckets  []BucketResult
	// Report is nil when ReportErr is set.
	Report    *insight.Report
	ReportErr error
}

// ReportSkipped reports whether the report was not attempted for lack of
// an API key.
func (o *Outcome) ReportSkipped() bool {
	return errors.Is(o.ReportErr, insight.ErrMissingAPIKey)
}

// Artifacts lists the downloadable files of the run.
func (o *Outcome) Artifacts() []store.Artifact {
	var out []store.Artifact
	for _, b := range o.Buckets {
		if b.Cloud != nil {
			out = append(out, store.Artifact{Name: CloudFileName(b.Bucket), ContentType: CONTENT_TYPE_PNG, Data: b.Cloud.PNG})
		}
		if b.CSV != nil {
			out = append(out, store.Artifact{Name: KeywordFileName(b.Bucket), ContentType: CONTENT_TYPE_CSV, Data: b.CSV})
		}
	}
	if o.Report != nil {
		out = append(out, store.Artifact{Name: insight.REPORT_FILE_NAME, ContentType: CONTENT_TYPE_MARKDOWN, Data: []byte(o.Report.Markdown)})
	}
	return out
}

// Service runs a whole analysis: pipeline, word clouds, keyword tables
// and the optional report.
type Service struct {
	pipeline  *processing.Pipeline
	renderer  CloudRenderer
	generator insight.Generator
	provider  string
	observer  RunObserver
	newRand   func() *rand.Rand
}

func NewService(pipeline *processing.Pipeline, renderer CloudRenderer, generator insight.Generator, provider string, observer RunObserver) *Service {
	return &Service{
		pipeline:  pipeline,
		renderer:  renderer,
		generator: generator,
		provider:  provider,
		observer:  observer,
		newRand: func() *rand.Rand {
			seed := uint64(time.Now().UnixNano())
			return rand.New(rand.NewPCG(seed, seed>>1))
		},
	}
}

// Run executes one analysis. Only input errors fail the run; render and
// report failures are recorded on the outcome.
func (s *Service) Run(ctx context.Context, req Request, progress processing.ProgressFunc) (*Outcome, error) {
	start := time.Now()
	res, err := s.pipeline.Run(ctx, processing.Input{
		Table:   req.Table,
		Columns: req.Columns,
		Config:  req.Config,
	}, progress)
	if s.observer != nil {
		s.observer.ObserveRun(err)
	}
	if err != nil {
		slog.Error("[Analysis] Pipeline failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	out := &Outcome{
		Mode:     res.Mode,
		Total:    len(res.All),
		Positive: len(res.Positive),
		Negative: len(res.Negative),
	}
	for _, bucket := range models.Buckets {
		out.Buckets = append(out.Buckets, s.renderBucket(bucket, res.Tables[bucket], req.Config))
	}

	out.Report, out.ReportErr = s.report(ctx, res, req.APIKey)

	slog.Info("[Analysis] Run complete",
		slog.String("mode", string(out.Mode)),
		slog.Int("total", out.Total),
		slog.Bool("report", out.Report != nil),
		slog.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (s *Service) renderBucket(bucket models.Bucket, table *processing.FrequencyTable, cfg models.RunConfig) BucketResult {
	result := BucketResult{Bucket: bucket, Keywords: table.Top(cfg.TopKeywords)}

	result.Cloud, result.RenderErr = s.renderer.Render(table.Top(cfg.MaxWords), wordcloud.ThemeFor(bucket))
	if result.RenderErr != nil {
		slog.Warn("[Analysis] Word cloud render failed",
			slog.String("bucket", string(bucket)),
			slog.String("error", result.RenderErr.Error()))
	}
	if s.observer != nil {
		s.observer.ObserveRender(bucket, result.RenderErr)
	}

	if result.HasKeywords() {
		csv, err := KeywordCSV(result.Keywords)
		if err != nil {
			slog.Warn("[Analysis] Keyword export failed",
				slog.String("bucket", string(bucket)),
				slog.String("error", err.Error()))
		}
		result.CSV = csv
	}
	return result
}

func (s *Service) report(ctx context.Context, res *processing.Result, apiKey string) (*insight.Report, error) {
	data := insight.PromptData{
		PositiveTerms:   res.Tables[models.BucketPositive].Top(insight.PROMPT_TOP_TERMS),
		NegativeTerms:   res.Tables[models.BucketNegative].Top(insight.PROMPT_TOP_TERMS),
		NegativeSamples: insight.SampleNegatives(res.Negative, insight.MAX_NEGATIVE_SAMPLES, s.newRand()),
		Total:           len(res.All),
		PositiveCount:   len(res.Positive),
		NegativeCount:   len(res.Negative),
	}
	report, err := insight.Draft(ctx, s.generator, data, apiKey)
	if errors.Is(err, insight.ErrMissingAPIKey) {
		slog.Warn("[Analysis] No API key, skipping report")
		if s.observer != nil {
			s.observer.ObserveSkippedReport(s.provider)
		}
	}
	return report, err
}
