package analysis

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"image"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewcloud/internal/ingest"
	"github.com/spacesedan/reviewcloud/internal/insight"
	"github.com/spacesedan/reviewcloud/internal/lexicon"
	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/nlp"
	"github.com/spacesedan/reviewcloud/internal/processing"
	"github.com/spacesedan/reviewcloud/internal/wordcloud"
)

type fakeRenderer struct {
	failTheme string
	themes    []string
}

func (f *fakeRenderer) Render(freq []models.TermCount, theme wordcloud.Theme) (*wordcloud.Image, error) {
	f.themes = append(f.themes, theme.Name)
	if theme.Name == f.failTheme {
		return nil, errors.New("no room")
	}
	return &wordcloud.Image{
		Image:       image.NewRGBA(image.Rect(0, 0, 1, 1)),
		PNG:         []byte(theme.Name),
		Placeholder: len(freq) == 0,
	}, nil
}

type stubGenerator struct {
	calls int
	reply string
	err   error
}

func (s *stubGenerator) Generate(context.Context, string, string) (string, error) {
	s.calls++
	return s.reply, s.err
}

type recordingObserver struct {
	runs    []error
	renders map[models.Bucket]error
	skipped int
}

func (r *recordingObserver) ObserveRun(err error) { r.runs = append(r.runs, err) }

func (r *recordingObserver) ObserveRender(b models.Bucket, err error) {
	if r.renders == nil {
		r.renders = map[models.Bucket]error{}
	}
	r.renders[b] = err
}

func (r *recordingObserver) ObserveSkippedReport(string) { r.skipped++ }

func newService(renderer CloudRenderer, gen insight.Generator, obs RunObserver) *Service {
	p := processing.NewPipeline(lexicon.Default(), nlp.NewRuleTagger(), nil)
	s := NewService(p, renderer, gen, "gemini", obs)
	s.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(1, 1)) }
	return s
}

func lexiconRequest(apiKey string) Request {
	table := &ingest.Table{
		Columns: []string{"리뷰"},
		Rows:    [][]string{{"좋아요 최고"}, {"그냥 보통"}},
	}
	return Request{
		Table:   table,
		Columns: ingest.ResolveColumns(table.Columns),
		Config:  models.DefaultRunConfig(),
		APIKey:  apiKey,
	}
}

func artifactNames(o *Outcome) []string {
	var names []string
	for _, a := range o.Artifacts() {
		names = append(names, a.Name)
	}
	return names
}

func TestRunWithoutAPIKey(t *testing.T) {
	renderer := &fakeRenderer{}
	gen := &stubGenerator{reply: "x"}
	obs := &recordingObserver{}

	out, err := newService(renderer, gen, obs).Run(context.Background(), lexiconRequest(""), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 1, out.Positive)
	assert.Equal(t, 0, out.Negative)
	assert.Equal(t, []string{"winter", "autumn", "set2"}, renderer.themes)

	assert.True(t, out.ReportSkipped())
	assert.Nil(t, out.Report)
	assert.Zero(t, gen.calls)
	assert.Equal(t, 1, obs.skipped)

	neg := out.Buckets[1]
	assert.False(t, neg.HasKeywords())
	assert.Nil(t, neg.CSV)
	assert.True(t, neg.Cloud.Placeholder)

	assert.Equal(t, []string{
		"pos_wc.png", "긍정_keywords.csv",
		"neg_wc.png",
		"all_wc.png", "전체_keywords.csv",
	}, artifactNames(out))
}

func TestRunWithReport(t *testing.T) {
	gen := &stubGenerator{reply: "# 보고서"}

	out, err := newService(&fakeRenderer{}, gen, nil).Run(context.Background(), lexiconRequest("key"), nil)
	require.NoError(t, err)

	require.NotNil(t, out.Report)
	assert.NoError(t, out.ReportErr)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, artifactNames(out), insight.REPORT_FILE_NAME)
}

func TestRunReportFailureKeepsResults(t *testing.T) {
	gen := &stubGenerator{err: errors.New("permission denied")}

	out, err := newService(&fakeRenderer{}, gen, nil).Run(context.Background(), lexiconRequest("bad"), nil)
	require.NoError(t, err)

	assert.Nil(t, out.Report)
	assert.Error(t, out.ReportErr)
	assert.False(t, out.ReportSkipped())
	assert.Equal(t, 1, gen.calls)
	assert.NotContains(t, artifactNames(out), insight.REPORT_FILE_NAME)
	assert.Len(t, out.Buckets, 3)
}

func TestRenderFailureIsPerBucket(t *testing.T) {
	renderer := &fakeRenderer{failTheme: "autumn"}
	obs := &recordingObserver{}

	out, err := newService(renderer, &stubGenerator{}, obs).Run(context.Background(), lexiconRequest(""), nil)
	require.NoError(t, err)

	assert.NoError(t, out.Buckets[0].RenderErr)
	assert.Error(t, out.Buckets[1].RenderErr)
	assert.Nil(t, out.Buckets[1].Cloud)
	assert.NoError(t, out.Buckets[2].RenderErr)
	assert.Error(t, obs.renders[models.BucketNegative])
	assert.NotContains(t, artifactNames(out), "neg_wc.png")
}

func TestRunInputErrorHalts(t *testing.T) {
	obs := &recordingObserver{}
	table := &ingest.Table{Columns: []string{"memo"}}

	_, err := newService(&fakeRenderer{}, &stubGenerator{}, obs).Run(context.Background(), Request{
		Table:   table,
		Columns: ingest.ResolveColumns(table.Columns),
		Config:  models.DefaultRunConfig(),
	}, nil)

	assert.Error(t, err)
	require.Len(t, obs.runs, 1)
	assert.Error(t, obs.runs[0])
}

func TestKeywordCSV(t *testing.T) {
	data, err := KeywordCSV([]models.TermCount{{Term: "크림", Count: 3}, {Term: "향, 기", Count: 1}})
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"순위", "키워드", "빈도"},
		{"1", "크림", "3"},
		{"2", "향, 기", "1"},
	}, records)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "pos_wc.png", CloudFileName(models.BucketPositive))
	assert.Equal(t, "neg_wc.png", CloudFileName(models.BucketNegative))
	assert.Equal(t, "all_wc.png", CloudFileName(models.BucketAll))
	assert.Equal(t, "부정_keywords.csv", KeywordFileName(models.BucketNegative))
}
