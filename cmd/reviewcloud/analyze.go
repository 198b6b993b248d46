package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacesedan/reviewcloud/internal/analysis"
	"github.com/spacesedan/reviewcloud/internal/ingest"
	"github.com/spacesedan/reviewcloud/internal/insight"
	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/processing"
)

var analyzeOpts struct {
	out          string
	reviewColumn string
	apiKey       string
	stopwords    string
	cfg          models.RunConfig
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a review file and write the artifacts to a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	d := models.DefaultRunConfig()
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeOpts.out, "out", "o", "out", "output directory")
	f.StringVar(&analyzeOpts.reviewColumn, "review-column", "", "review column when it cannot be detected")
	f.StringVar(&analyzeOpts.apiKey, "api-key", "", "LLM API key (default $LLM_API_KEY)")
	f.StringVar(&analyzeOpts.stopwords, "stopwords", "", "comma separated extra stopwords")
	f.IntVar(&analyzeOpts.cfg.MaxWords, "max-words", d.MaxWords, "words per cloud (30-200)")
	f.IntVar(&analyzeOpts.cfg.MinWordLength, "min-length", d.MinWordLength, "minimum keyword length (1-5)")
	f.IntVar(&analyzeOpts.cfg.TopKeywords, "top", d.TopKeywords, "rows per keyword table (10-50)")
	f.IntVar(&analyzeOpts.cfg.PositiveThreshold, "positive-min", d.PositiveThreshold, "ratings at or above are positive")
	f.IntVar(&analyzeOpts.cfg.NegativeThreshold, "negative-max", d.NegativeThreshold, "ratings at or below are negative")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	table, err := ingest.Load(filepath.Base(path), data)
	if err != nil {
		return err
	}

	cols := ingest.ResolveColumns(table.Columns)
	if analyzeOpts.reviewColumn != "" {
		if table.Index(analyzeOpts.reviewColumn) < 0 {
			return fmt.Errorf("column %q not found, available: %s", analyzeOpts.reviewColumn, strings.Join(table.Columns, ", "))
		}
		cols = cols.WithReview(analyzeOpts.reviewColumn)
	}
	if cols.NeedsReviewSelection {
		return fmt.Errorf("no review column detected, pass --review-column (available: %s)", strings.Join(table.Columns, ", "))
	}

	cfg := analyzeOpts.cfg
	cfg.ExtraStopwords = models.ParseStopwords(analyzeOpts.stopwords)
	apiKey := analyzeOpts.apiKey
	if apiKey == "" {
		apiKey = settings.LLMAPIKey
	}

	deps, err := buildComponents(cmd.Context(), settings)
	if err != nil {
		return err
	}
	outcome, err := deps.service.Run(cmd.Context(), analysis.Request{
		Table:   table,
		Columns: cols,
		Config:  cfg,
		APIKey:  apiKey,
	}, func(stage processing.Stage) {
		slog.Info("[Analyze] Progress",
			slog.String("stage", stage.String()),
			slog.Int("percent", stage.Percent()))
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(analyzeOpts.out, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", analyzeOpts.out, err)
	}
	for _, a := range outcome.Artifacts() {
		target := filepath.Join(analyzeOpts.out, a.Name)
		if err := os.WriteFile(target, a.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		slog.Info("[Analyze] Wrote artifact", slog.String("path", target))
	}

	for _, b := range outcome.Buckets {
		if b.RenderErr != nil {
			slog.Warn("[Analyze] Word cloud missing",
				slog.String("bucket", b.Label()),
				slog.String("error", b.RenderErr.Error()))
		}
		if !b.HasKeywords() {
			slog.Info("[Analyze] No keywords", slog.String("bucket", b.Label()))
		}
	}
	if outcome.ReportErr != nil {
		slog.Warn("[Analyze] Report not generated",
			slog.String("reason", insight.UserMessage(outcome.ReportErr)))
	}

	slog.Info("[Analyze] Done",
		slog.String("mode", string(outcome.Mode)),
		slog.Int("total", outcome.Total),
		slog.Int("positive", outcome.Positive),
		slog.Int("negative", outcome.Negative))
	return nil
}
