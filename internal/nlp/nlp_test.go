package nlp

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewcloud/internal/lexicon"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "좋아요  최고    abc 123 ", Normalize("좋아요!!최고~ ♥ abc 123."))
	assert.Equal(t, "  ", Normalize("é_"))
	assert.Equal(t, "", Normalize(""))
}

func TestRuleTaggerAnalyze(t *testing.T) {
	tagger := NewRuleTagger()

	cases := map[string][]Token{
		"좋아요 최고": {{"좋아요", TagAdjective}, {"최고", TagCommonNoun}},
		"별로 실망":  {{"별로", TagAdverb}, {"실망", TagCommonNoun}},
		"피부가 촉촉": {{"피부", TagCommonNoun}, {"가", TagParticle}, {"촉촉", TagCommonNoun}},
		"만족해요":   {{"만족", TagCommonNoun}, {"해요", TagVerbSuffix}},
		"최고예요":   {{"최고", TagCommonNoun}, {"예요", TagCopula}},
		"크림 크기":  {{"크림", TagCommonNoun}, {"크기", TagCommonNoun}},
		"효과":     {{"효과", TagCommonNoun}},
		"LED3개":  {{"LED", TagForeign}, {"3", TagNumber}, {"개", TagCommonNoun}},
	}
	for input, want := range cases {
		got, err := tagger.Analyze(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, want, got, input)
	}
}

func TestRuleTaggerStripsStackedParticles(t *testing.T) {
	got, err := NewRuleTagger().Analyze(context.Background(), "집에서도")
	require.NoError(t, err)
	assert.Equal(t, Token{"집", TagCommonNoun}, got[0])
}

func TestSplitScripts(t *testing.T) {
	runs := splitScripts("abc가나12")
	require.Len(t, runs, 3)
	assert.Equal(t, scriptRun{runLatin, "abc"}, runs[0])
	assert.Equal(t, scriptRun{runHangul, "가나"}, runs[1])
	assert.Equal(t, scriptRun{runDigit, "12"}, runs[2])
}

func collect(e *Extractor, text string) []string {
	return slices.Collect(e.Terms(context.Background(), text))
}

func TestExtractorFilters(t *testing.T) {
	lex := lexicon.Default()
	e := NewExtractor(NewRuleTagger(), lex.StopSet([]string{"보습"}), 2)

	terms := collect(e, "배송 빠르고 보습 최고! 피부가 촉촉 LED 3 개")

	// 배송 is a stopword, 보습 is excluded for this run, 개 and 3 are too
	// short or not nouns.
	assert.Equal(t, []string{"최고", "피부", "촉촉", "LED"}, terms)
}

func TestExtractorMinLength(t *testing.T) {
	e := NewExtractor(NewRuleTagger(), lexicon.Default().StopSet(nil), 3)
	assert.Equal(t, []string{"선크림"}, collect(e, "최고 선크림"))
}

func TestExtractorIsIdempotent(t *testing.T) {
	lex := lexicon.Default()
	e := NewExtractor(NewRuleTagger(), lex.StopSet([]string{"향"}), 2)
	inputs := []string{
		"집에서도 쓰기 좋은 크림이에요. 향이 은은하고 피부에 자극이 없어요",
		"가격 대비 만족해요!! 배송은 느렸지만 포장이 꼼꼼했어요",
		"SPF50 선크림, 백탁 없고 촉촉함 최고예요",
	}
	for _, in := range inputs {
		first := collect(e, in)
		second := collect(e, strings.Join(first, " "))
		assert.Equal(t, first, second, in)
	}
}

type failingTagger struct{}

func (failingTagger) Analyze(context.Context, string) ([]Token, error) {
	return nil, errors.New("analyzer unavailable")
}

func TestExtractorTaggerFailureYieldsNothing(t *testing.T) {
	e := NewExtractor(failingTagger{}, lexicon.Default().StopSet(nil), 1)
	assert.Empty(t, collect(e, "최고"))
}

func TestExtractorStopsEarly(t *testing.T) {
	e := NewExtractor(NewRuleTagger(), lexicon.Default().StopSet(nil), 2)
	var got []string
	for term := range e.Terms(context.Background(), "최고 피부 크림") {
		got = append(got, term)
		break
	}
	assert.Equal(t, []string{"최고"}, got)
}
