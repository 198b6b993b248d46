package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewcloud/internal/lexicon"
	"github.com/spacesedan/reviewcloud/internal/models"
)

func TestParseRating(t *testing.T) {
	cases := []struct {
		cell string
		want float64
		ok   bool
	}{
		{"5", 5, true},
		{" 3.5 ", 3.5, true},
		{"", 0, false},
		{"five", 0, false},
		{"NaN", 0, false},
		{"inf", math.Inf(1), true},
	}
	for _, tc := range cases {
		got, ok := ParseRating(tc.cell)
		assert.Equal(t, tc.ok, ok, tc.cell)
		assert.Equal(t, tc.want, got, tc.cell)
	}
}

func TestByRatingExhaustive(t *testing.T) {
	for p := 1; p <= 5; p++ {
		for n := 1; n <= 5; n++ {
			for r := 0.0; r <= 6; r += 0.5 {
				got := ByRating(r, p, n)
				var want models.Sentiment
				switch {
				case r >= float64(p):
					want = models.SentimentPositive
				case r <= float64(n):
					want = models.SentimentNegative
				default:
					want = models.SentimentNeutral
				}
				assert.Equal(t, want, got, "r=%v p=%d n=%d", r, p, n)
			}
		}
	}
}

func TestByRatingOverlappingThresholdsFavorPositive(t *testing.T) {
	assert.Equal(t, models.SentimentPositive, ByRating(3, 2, 4))
}

func TestByTextNoHitsIsNeutral(t *testing.T) {
	lex := lexicon.Default()
	for _, text := range []string{"", "그냥 보통", "hello world"} {
		assert.Equal(t, models.SentimentNeutral, ByText(lex, text), text)
	}
}

func TestByTextTieIsNeutral(t *testing.T) {
	assert.Equal(t, models.SentimentNeutral, ByText(lexicon.Default(), "최고인데 실망"))
}

func TestByTextMatchesInsideWords(t *testing.T) {
	// "굿" hits inside "굿즈" because matching is containment, not tokens.
	assert.Equal(t, models.SentimentPositive, ByText(lexicon.Default(), "굿즈"))
}

func TestClassifyLexiconMode(t *testing.T) {
	c := NewClassifier(lexicon.Default(), 4, 2)

	reviews, mode := c.Classify([]string{"좋아요 최고", "별로 실망", "그냥 보통"}, nil)

	assert.Equal(t, ModeLexicon, mode)
	require.Len(t, reviews, 3)
	assert.Equal(t, models.SentimentPositive, reviews[0].Sentiment)
	assert.Equal(t, models.SentimentNegative, reviews[1].Sentiment)
	assert.Equal(t, models.SentimentNeutral, reviews[2].Sentiment)
	assert.Nil(t, reviews[0].Rating)
}

func TestClassifyRatingMode(t *testing.T) {
	c := NewClassifier(lexicon.Default(), 4, 2)

	reviews, mode := c.Classify(
		[]string{"a", "b", "c", "d", "e"},
		[]string{"5", "3", "1", "", "별 다섯개"},
	)

	assert.Equal(t, ModeRating, mode)
	got := make([]models.Sentiment, len(reviews))
	for i, r := range reviews {
		got[i] = r.Sentiment
	}
	assert.Equal(t, []models.Sentiment{
		models.SentimentPositive,
		models.SentimentNeutral,
		models.SentimentNegative,
		models.SentimentNeutral,
		models.SentimentNeutral,
	}, got)
	require.NotNil(t, reviews[0].Rating)
	assert.Equal(t, 5.0, *reviews[0].Rating)
	assert.Nil(t, reviews[3].Rating)
}

func TestClassifyRatingModeIgnoresTextMarkers(t *testing.T) {
	c := NewClassifier(lexicon.Default(), 4, 2)

	reviews, _ := c.Classify([]string{"최고 최고 최고"}, []string{"1"})

	assert.Equal(t, models.SentimentNegative, reviews[0].Sentiment)
}

func TestPartition(t *testing.T) {
	reviews := []models.Review{
		{Text: "a", Sentiment: models.SentimentPositive},
		{Text: "b", Sentiment: models.SentimentNegative},
		{Text: "c", Sentiment: models.SentimentNeutral},
	}

	pos, neg, all := Partition(reviews)

	assert.Equal(t, []string{"a"}, pos)
	assert.Equal(t, []string{"b"}, neg)
	assert.Equal(t, []string{"a", "b", "c"}, all)
}
