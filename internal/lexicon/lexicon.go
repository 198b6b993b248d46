package lexicon

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

var (
	defaultInstance *Lexicon
	defaultOnce     sync.Once
)

// Set is an immutable string set.
type Set map[string]struct{}

func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s Set) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Lexicon holds the stopwords and the two sentiment marker lists.
// Marker order follows the source document so scoring stays deterministic.
type Lexicon struct {
	stopwords Set
	positive  []string
	negative  []string
}

type lexiconFile struct {
	Stopwords []string `yaml:"stopwords"`
	Positive  []string `yaml:"positive"`
	Negative  []string `yaml:"negative"`
}

// Parse builds a Lexicon from a YAML document with stopwords, positive and
// negative lists. Blank entries are dropped and duplicates collapsed.
func Parse(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if len(f.Positive) == 0 || len(f.Negative) == 0 {
		return nil, fmt.Errorf("lexicon needs both positive and negative markers")
	}
	return &Lexicon{
		stopwords: NewSet(clean(f.Stopwords)...),
		positive:  clean(f.Positive),
		negative:  clean(f.Negative),
	}, nil
}

func clean(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Default returns the embedded Korean lexicon, parsed on first use.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Parse(defaultLexicon)
		if err != nil {
			panic(fmt.Errorf("[Lexicon] embedded lexicon is invalid: %w", err))
		}
		slog.Debug("[Lexicon] Loaded default lexicon",
			slog.Int("stopwords", lex.StopwordCount()),
			slog.Int("positive", len(lex.positive)),
			slog.Int("negative", len(lex.negative)))
		defaultInstance = lex
	})
	return defaultInstance
}

// IsStopword reports whether word is in the static stopword list.
func (l *Lexicon) IsStopword(word string) bool {
	return l.stopwords.Contains(word)
}

func (l *Lexicon) StopwordCount() int {
	return len(l.stopwords)
}

// PositiveMarkers returns a copy of the positive markers.
func (l *Lexicon) PositiveMarkers() []string {
	return append([]string(nil), l.positive...)
}

// NegativeMarkers returns a copy of the negative markers.
func (l *Lexicon) NegativeMarkers() []string {
	return append([]string(nil), l.negative...)
}

// CountMarkers reports how many positive and negative markers occur in text
// as plain substrings. Each marker counts at most once.
func (l *Lexicon) CountMarkers(text string) (pos, neg int) {
	for _, m := range l.positive {
		if strings.Contains(text, m) {
			pos++
		}
	}
	for _, m := range l.negative {
		if strings.Contains(text, m) {
			neg++
		}
	}
	return pos, neg
}

// StopSet is the stopword list merged with one run's exclusions.
type StopSet struct {
	base  Set
	extra Set
}

// StopSet merges the static stopwords with extra words for a single run.
// The static set is left untouched.
func (l *Lexicon) StopSet(extra []string) StopSet {
	return StopSet{base: l.stopwords, extra: NewSet(clean(extra)...)}
}

func (s StopSet) Contains(word string) bool {
	return s.base.Contains(word) || s.extra.Contains(word)
}
