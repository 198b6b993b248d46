package processing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/reviewcloud/internal/ingest"
	"github.com/spacesedan/reviewcloud/internal/lexicon"
	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/nlp"
	"github.com/spacesedan/reviewcloud/internal/sentiment"
)

// Stage is a coarse progress checkpoint; one fires after each bucket's
// frequency table is complete.
type Stage int

const (
	StagePositive Stage = iota + 1
	StageNegative
	StageAll
)

func (s Stage) String() string {
	switch s {
	case StagePositive:
		return "positive"
	case StageNegative:
		return "negative"
	case StageAll:
		return "all"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Percent is the progress shown once the stage is done.
func (s Stage) Percent() int {
	switch s {
	case StagePositive:
		return 40
	case StageNegative:
		return 80
	case StageAll:
		return 100
	default:
		return 0
	}
}

type ProgressFunc func(Stage)

// Observer receives stage timings and sentiment counts. It may be nil.
type Observer interface {
	ObserveStage(stage Stage, elapsed time.Duration)
	ObserveReviews(mode sentiment.Mode, reviews []models.Review)
}

type Input struct {
	Table   *ingest.Table
	Columns ingest.Resolution
	Config  models.RunConfig
}

type Result struct {
	Mode     sentiment.Mode
	Reviews  []models.Review
	Positive []string
	Negative []string
	All      []string
	Tables   map[models.Bucket]*FrequencyTable
}

func (r *Result) Texts(b models.Bucket) []string {
	switch b {
	case models.BucketPositive:
		return r.Positive
	case models.BucketNegative:
		return r.Negative
	default:
		return r.All
	}
}

// Pipeline classifies reviews and builds the three frequency tables.
// It holds no per-run state and runs every stage on the caller's goroutine.
type Pipeline struct {
	lex      *lexicon.Lexicon
	tagger   nlp.Tagger
	observer Observer
}

func NewPipeline(lex *lexicon.Lexicon, tagger nlp.Tagger, observer Observer) *Pipeline {
	return &Pipeline{lex: lex, tagger: tagger, observer: observer}
}

func (p *Pipeline) Run(ctx context.Context, in Input, progress ProgressFunc) (*Result, error) {
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}
	if in.Columns.NeedsReviewSelection || in.Columns.Review == "" {
		return nil, fmt.Errorf("review column has not been selected")
	}

	texts, err := in.Table.Column(in.Columns.Review)
	if err != nil {
		return nil, err
	}
	var ratings []string
	if in.Columns.HasRating() {
		if ratings, err = in.Table.Column(in.Columns.Rating); err != nil {
			return nil, err
		}
	}

	classifier := sentiment.NewClassifier(p.lex, in.Config.PositiveThreshold, in.Config.NegativeThreshold)
	reviews, mode := classifier.Classify(texts, ratings)
	pos, neg, all := sentiment.Partition(reviews)
	if p.observer != nil {
		p.observer.ObserveReviews(mode, reviews)
	}

	slog.Info("[Pipeline] Reviews classified",
		slog.String("mode", string(mode)),
		slog.Int("total", len(all)),
		slog.Int("positive", len(pos)),
		slog.Int("negative", len(neg)))

	extractor := nlp.NewExtractor(p.tagger, p.lex.StopSet(in.Config.ExtraStopwords), in.Config.MinWordLength)
	result := &Result{
		Mode:     mode,
		Reviews:  reviews,
		Positive: pos,
		Negative: neg,
		All:      all,
		Tables:   make(map[models.Bucket]*FrequencyTable, len(models.Buckets)),
	}

	stages := []struct {
		stage  Stage
		bucket models.Bucket
	}{
		{StagePositive, models.BucketPositive},
		{StageNegative, models.BucketNegative},
		{StageAll, models.BucketAll},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		result.Tables[s.bucket] = Aggregate(ctx, extractor, result.Texts(s.bucket))
		elapsed := time.Since(start)

		slog.Debug("[Pipeline] Stage complete",
			slog.String("stage", s.stage.String()),
			slog.Int("terms", result.Tables[s.bucket].Len()),
			slog.Duration("elapsed", elapsed))
		if p.observer != nil {
			p.observer.ObserveStage(s.stage, elapsed)
		}
		if progress != nil {
			progress(s.stage)
		}
	}
	return result, nil
}
