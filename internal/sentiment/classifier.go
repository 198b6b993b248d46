package sentiment

import (
	"math"
	"strconv"
	"strings"

	"github.com/spacesedan/reviewcloud/internal/lexicon"
	"github.com/spacesedan/reviewcloud/internal/models"
)

type Mode string

const (
	ModeRating  Mode = "rating"
	ModeLexicon Mode = "lexicon"
)

// ParseRating turns a raw cell into a rating. Missing, blank, non-numeric
// and NaN cells all report ok=false.
func ParseRating(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	r, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(r) {
		return 0, false
	}
	return r, true
}

// ByRating labels a rating against the two thresholds. The positive check
// runs first, so with overlapping thresholds positive wins.
func ByRating(rating float64, positiveMin, negativeMax int) models.Sentiment {
	switch {
	case rating >= float64(positiveMin):
		return models.SentimentPositive
	case rating <= float64(negativeMax):
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ByText labels text by counting contained lexicon markers. Ties,
// including no hits at all, are neutral.
func ByText(lex *lexicon.Lexicon, text string) models.Sentiment {
	pos, neg := lex.CountMarkers(text)
	switch {
	case pos > neg:
		return models.SentimentPositive
	case neg > pos:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Classifier assigns exactly one label to every review.
type Classifier struct {
	lex         *lexicon.Lexicon
	positiveMin int
	negativeMax int
}

func NewClassifier(lex *lexicon.Lexicon, positiveMin, negativeMax int) *Classifier {
	return &Classifier{lex: lex, positiveMin: positiveMin, negativeMax: negativeMax}
}

// Classify builds labeled reviews from the text column and an optional
// rating column. ratings == nil selects lexicon mode.
func (c *Classifier) Classify(texts []string, ratings []string) ([]models.Review, Mode) {
	mode := ModeLexicon
	if ratings != nil {
		mode = ModeRating
	}

	reviews := make([]models.Review, len(texts))
	for i, text := range texts {
		review := models.Review{Text: text}
		if mode == ModeRating {
			review.Sentiment = models.SentimentNeutral
			if i < len(ratings) {
				if r, ok := ParseRating(ratings[i]); ok {
					review.Rating = &r
					review.Sentiment = ByRating(r, c.positiveMin, c.negativeMax)
				}
			}
		} else {
			review.Sentiment = ByText(c.lex, text)
		}
		reviews[i] = review
	}
	return reviews, mode
}

// Partition splits reviews into the positive and negative texts.
func Partition(reviews []models.Review) (positive, negative, all []string) {
	all = make([]string, 0, len(reviews))
	for _, r := range reviews {
		all = append(all, r.Text)
		switch r.Sentiment {
		case models.SentimentPositive:
			positive = append(positive, r.Text)
		case models.SentimentNegative:
			negative = append(negative, r.Text)
		}
	}
	return positive, negative, all
}
