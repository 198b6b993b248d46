package nlp

import "context"

// Part-of-speech tags, a subset of the Sejong tag set used by Korean
// morphological analyzers.
const (
	TagCommonNoun   = "NNG"
	TagProperNoun   = "NNP"
	TagPronoun      = "NP"
	TagForeign      = "SL"
	TagNumber       = "SN"
	TagVerb         = "VV"
	TagAdjective    = "VA"
	TagCopula       = "VCP"
	TagAdverb       = "MAG"
	TagConjunction  = "MAJ"
	TagDeterminer   = "MM"
	TagInterjection = "IC"
	TagParticle     = "JX"
	TagVerbSuffix   = "XSV"
	TagEnding       = "EF"
)

// Token is one morpheme as returned by a Tagger.
type Token struct {
	Form string `json:"form"`
	Tag  string `json:"tag"`
}

// Tagger is a morphological analyzer. Implementations must be
// deterministic for a given input and free of side effects.
type Tagger interface {
	Analyze(ctx context.Context, text string) ([]Token, error)
}

// IsNounLike reports whether a tag is kept for keyword extraction.
func IsNounLike(tag string) bool {
	switch tag {
	case TagCommonNoun, TagProperNoun, TagForeign:
		return true
	default:
		return false
	}
}
