package models

import (
	"fmt"
	"strings"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Review is one input row after classification.
type Review struct {
	Text      string    `json:"text"`
	Rating    *float64  `json:"rating,omitempty"`
	Sentiment Sentiment `json:"sentiment"`
}

// Bucket partitions reviews for a separate frequency table and word cloud.
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNegative Bucket = "negative"
	BucketAll      Bucket = "all"
)

// Buckets in render order.
var Buckets = []Bucket{BucketPositive, BucketNegative, BucketAll}

// Label is the Korean display label, also used in download file names.
func (b Bucket) Label() string {
	switch b {
	case BucketPositive:
		return "긍정"
	case BucketNegative:
		return "부정"
	default:
		return "전체"
	}
}

// TermCount is one entry of a frequency table in display order.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

const (
	MIN_MAX_WORDS     = 30
	MAX_MAX_WORDS     = 200
	MIN_WORD_LENGTH   = 1
	MAX_WORD_LENGTH   = 5
	MIN_TOP_KEYWORDS  = 10
	MAX_TOP_KEYWORDS  = 50
	MIN_RATING_BOUND  = 1
	MAX_RATING_BOUND  = 5
	DEFAULT_MAX_WORDS = 80
	DEFAULT_MIN_LEN   = 2
	DEFAULT_TOP_N     = 20
	DEFAULT_POS_MIN   = 4
	DEFAULT_NEG_MAX   = 2
)

// RunConfig holds the options of a single pipeline run. Nothing in it
// outlives the run.
type RunConfig struct {
	MaxWords          int
	MinWordLength     int
	TopKeywords       int
	ExtraStopwords    []string
	PositiveThreshold int
	NegativeThreshold int
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		MaxWords:          DEFAULT_MAX_WORDS,
		MinWordLength:     DEFAULT_MIN_LEN,
		TopKeywords:       DEFAULT_TOP_N,
		PositiveThreshold: DEFAULT_POS_MIN,
		NegativeThreshold: DEFAULT_NEG_MAX,
	}
}

// Validate checks each option against its range. The relation between the
// two rating thresholds is deliberately left unchecked.
func (c RunConfig) Validate() error {
	checks := []struct {
		name     string
		value    int
		min, max int
	}{
		{"max_words", c.MaxWords, MIN_MAX_WORDS, MAX_MAX_WORDS},
		{"min_word_length", c.MinWordLength, MIN_WORD_LENGTH, MAX_WORD_LENGTH},
		{"top_n_keywords", c.TopKeywords, MIN_TOP_KEYWORDS, MAX_TOP_KEYWORDS},
		{"positive_rating_threshold", c.PositiveThreshold, MIN_RATING_BOUND, MAX_RATING_BOUND},
		{"negative_rating_threshold", c.NegativeThreshold, MIN_RATING_BOUND, MAX_RATING_BOUND},
	}
	for _, ch := range checks {
		if ch.value < ch.min || ch.value > ch.max {
			return fmt.Errorf("%s must be within [%d, %d], got %d", ch.name, ch.min, ch.max, ch.value)
		}
	}
	return nil
}

// ParseStopwords splits a comma separated list, trimming blanks and
// dropping empty entries.
func ParseStopwords(raw string) []string {
	var words []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
