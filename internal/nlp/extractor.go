package nlp

import (
	"context"
	"iter"
	"log/slog"
	"unicode/utf8"

	"github.com/spacesedan/reviewcloud/internal/lexicon"
)

// Extractor turns review text into keyword terms: nouns and foreign
// words that are long enough and not stopwords.
type Extractor struct {
	tagger Tagger
	stops  lexicon.StopSet
	minLen int
}

func NewExtractor(tagger Tagger, stops lexicon.StopSet, minLen int) *Extractor {
	return &Extractor{tagger: tagger, stops: stops, minLen: minLen}
}

// Keep reports whether a tagged token survives filtering.
func (e *Extractor) Keep(tok Token) bool {
	return IsNounLike(tok.Tag) &&
		utf8.RuneCountInString(tok.Form) >= e.minLen &&
		!e.stops.Contains(tok.Form)
}

// Terms yields the qualifying terms of one text in tagger order. A tagger
// failure is logged and yields nothing for that text.
func (e *Extractor) Terms(ctx context.Context, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		tokens, err := e.tagger.Analyze(ctx, Normalize(text))
		if err != nil {
			slog.Warn("[Extractor] Tagger failed, skipping text",
				slog.Int("text_length", len(text)),
				slog.String("error", err.Error()))
			return
		}
		for _, tok := range tokens {
			if !e.Keep(tok) {
				continue
			}
			if !yield(tok.Form) {
				return
			}
		}
	}
}
