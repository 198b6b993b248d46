package processing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewcloud/internal/ingest"
	"github.com/spacesedan/reviewcloud/internal/lexicon"
	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/nlp"
	"github.com/spacesedan/reviewcloud/internal/sentiment"
)

type recordingObserver struct {
	stages  []Stage
	mode    sentiment.Mode
	reviews int
}

func (r *recordingObserver) ObserveStage(stage Stage, _ time.Duration) {
	r.stages = append(r.stages, stage)
}

func (r *recordingObserver) ObserveReviews(mode sentiment.Mode, reviews []models.Review) {
	r.mode = mode
	r.reviews = len(reviews)
}

func sentiments(reviews []models.Review) []models.Sentiment {
	out := make([]models.Sentiment, len(reviews))
	for i, r := range reviews {
		out[i] = r.Sentiment
	}
	return out
}

func TestPipelineLexiconMode(t *testing.T) {
	table := &ingest.Table{
		Columns: []string{"리뷰"},
		Rows:    [][]string{{"좋아요 최고"}, {"별로 실망"}, {"그냥 보통"}},
	}
	obs := &recordingObserver{}
	var progress []Stage
	p := NewPipeline(lexicon.Default(), nlp.NewRuleTagger(), obs)

	res, err := p.Run(context.Background(), Input{
		Table:   table,
		Columns: ingest.ResolveColumns(table.Columns),
		Config:  models.DefaultRunConfig(),
	}, func(s Stage) { progress = append(progress, s) })
	require.NoError(t, err)

	assert.Equal(t, sentiment.ModeLexicon, res.Mode)
	assert.Equal(t, []models.Sentiment{
		models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral,
	}, sentiments(res.Reviews))
	assert.Equal(t, []models.TermCount{{Term: "최고", Count: 1}}, res.Tables[models.BucketPositive].Top(0))
	assert.Equal(t, []models.TermCount{{Term: "실망", Count: 1}}, res.Tables[models.BucketNegative].Top(0))
	assert.Equal(t, 3, res.Tables[models.BucketAll].Len())

	assert.Equal(t, []Stage{StagePositive, StageNegative, StageAll}, progress)
	assert.Equal(t, progress, obs.stages)
	assert.Equal(t, 3, obs.reviews)
}

func TestPipelineRatingMode(t *testing.T) {
	table := &ingest.Table{
		Columns: []string{"review", "rating"},
		Rows:    [][]string{{"a", "5"}, {"b", "3"}, {"c", "1"}},
	}
	cfg := models.DefaultRunConfig()
	cfg.PositiveThreshold, cfg.NegativeThreshold = 4, 2

	res, err := NewPipeline(lexicon.Default(), nlp.NewRuleTagger(), nil).Run(context.Background(), Input{
		Table:   table,
		Columns: ingest.ResolveColumns(table.Columns),
		Config:  cfg,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, sentiment.ModeRating, res.Mode)
	assert.Equal(t, []models.Sentiment{
		models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative,
	}, sentiments(res.Reviews))
}

func TestPipelineRequiresReviewColumn(t *testing.T) {
	table := &ingest.Table{Columns: []string{"메모"}, Rows: [][]string{{"최고"}}}
	p := NewPipeline(lexicon.Default(), nlp.NewRuleTagger(), nil)

	_, err := p.Run(context.Background(), Input{
		Table:   table,
		Columns: ingest.ResolveColumns(table.Columns),
		Config:  models.DefaultRunConfig(),
	}, nil)
	assert.Error(t, err)

	res, err := p.Run(context.Background(), Input{
		Table:   table,
		Columns: ingest.ResolveColumns(table.Columns).WithReview("메모"),
		Config:  models.DefaultRunConfig(),
	}, nil)
	require.NoError(t, err)
	assert.Len(t, res.Reviews, 1)
}

func TestPipelineRejectsInvalidConfig(t *testing.T) {
	table := &ingest.Table{Columns: []string{"리뷰"}}
	cfg := models.DefaultRunConfig()
	cfg.MaxWords = 5

	_, err := NewPipeline(lexicon.Default(), nlp.NewRuleTagger(), nil).Run(context.Background(), Input{
		Table:   table,
		Columns: ingest.ResolveColumns(table.Columns),
		Config:  cfg,
	}, nil)
	assert.Error(t, err)
}

func TestPipelineEmptyNegativeBucket(t *testing.T) {
	table := &ingest.Table{Columns: []string{"리뷰"}, Rows: [][]string{{"최고 크림"}}}

	res, err := NewPipeline(lexicon.Default(), nlp.NewRuleTagger(), nil).Run(context.Background(), Input{
		Table:   table,
		Columns: ingest.ResolveColumns(table.Columns),
		Config:  models.DefaultRunConfig(),
	}, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Negative)
	assert.Zero(t, res.Tables[models.BucketNegative].Len())
}
