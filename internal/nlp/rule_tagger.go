package nlp

import (
	"context"
	"strings"
	"unicode/utf8"
)

// RuleTagger is a dictionary and suffix based analyzer for Korean review
// text. It needs no external service and is used when no analyzer
// endpoint is configured. Hangul words are analyzed right to left:
// closed-class lookup, predicate detection, copula and 하-derivation
// split, particle stripping, and whatever stem is left is a common noun.
type RuleTagger struct {
	closedClass map[string]string
}

func NewRuleTagger() *RuleTagger {
	closed := make(map[string]string)
	for tag, words := range closedClassWords {
		for _, w := range words {
			closed[w] = tag
		}
	}
	return &RuleTagger{closedClass: closed}
}

var closedClassWords = map[string][]string{
	TagAdverb: {
		"그냥", "별로", "정말", "진짜", "너무", "아주", "매우", "엄청", "완전", "잘", "좀", "또",
		"다시", "계속", "빨리", "많이", "조금", "약간", "살짝", "항상", "자주", "벌써", "이미",
		"아직", "특히", "역시", "제일", "가장", "더", "덜", "꼭", "같이", "함께", "바로", "금방",
		"그래도", "원래", "전혀", "생각보다", "다", "안", "못", "넘", "되게", "굉장히", "무척",
	},
	TagConjunction: {"그리고", "그런데", "근데", "하지만", "그래서", "그러나", "또는", "그러면"},
	TagDeterminer:  {"이런", "그런", "저런", "모든", "각", "몇", "새", "어떤", "무슨", "이", "그", "저"},
	TagPronoun: {
		"나", "저", "너", "우리", "저희", "이거", "그거", "저거", "이것", "그것", "저것",
		"여기", "거기", "저기", "누구", "무엇", "뭐",
	},
	TagInterjection: {"와", "아", "헐", "오", "음", "우와", "대박"},
}

// particles are tried longest first. A single-rune particle is only
// stripped when at least two runes remain.
var particles = []string{
	"에서는", "에게서", "으로는", "에서도", "이랑은",
	"에서", "에게", "으로", "부터", "까지", "처럼", "보다", "이랑", "이나", "마다", "조차", "밖에", "만큼", "한테", "에는", "에도", "로는", "와는", "과는",
	"은", "는", "이", "가", "을", "를", "에", "의", "도", "만", "와", "과", "로", "랑", "께",
}

// copulas attach to a noun: 최고예요, 선물이에요.
var copulas = []string{
	"이었어요", "이었는데", "였어요", "였는데", "입니다", "이에요", "이네요", "이라서", "이지만", "이고",
	"예요", "네요", "이다", "이야", "였다", "인데", "라서", "지만",
}

// haSuffixes mark 하-derivation: 만족해요 -> 만족 + 해요.
var haSuffixes = []string{
	"했었어요", "했는데요", "했습니다", "했어요", "했는데", "합니다", "하네요", "했네요", "해서요",
	"해요", "하다", "해서", "하고", "하게", "했다", "해도", "하는", "했던", "했음", "하면",
	"한", "함", "해",
}

// predicateStems are adjective and verb roots that take an ending
// directly (좋아요, 싫은). They only match when the remainder is a known
// ending so nouns such as 크림 are not mistaken for 크-.
var predicateStems = []string{
	"부드러", "부드럽", "괜찮", "아쉬", "아쉽", "예쁘", "예뻐", "예쁜", "나쁘", "나빠", "나쁜",
	"비싸", "비싼", "따가", "따갑", "가려", "가렵", "빠르", "빨라", "빠른", "느리", "느린",
	"아프", "아파", "좋", "싫", "같", "없", "있", "많", "적", "크", "큰", "작", "싸", "싼", "편",
}

var predicateEndings = map[string]struct{}{
	"": {}, "다": {}, "아": {}, "어": {}, "아요": {}, "어요": {}, "은": {}, "는": {}, "네": {}, "네요": {},
	"고": {}, "게": {}, "지": {}, "지만": {}, "았": {}, "었": {}, "았어요": {}, "었어요": {}, "았다": {},
	"었다": {}, "습니다": {}, "음": {}, "아서": {}, "어서": {}, "으면": {}, "을": {}, "던": {}, "다고": {},
	"다는": {}, "아도": {}, "어도": {}, "더라": {}, "더라고요": {}, "거든요": {}, "죠": {},
	"지요": {}, "군요": {}, "구나": {}, "나": {}, "니": {}, "니까": {}, "으니까": {}, "운": {}, "워": {},
	"워요": {}, "웠": {}, "웠어요": {}, "웠다": {}, "요": {}, "해요": {}, "한": {}, "해": {}, "하다": {},
	"았는데": {}, "었는데": {}, "는데": {}, "은데": {}, "습니다만": {},
}

// finalEndings mark a whole word as a predicate, checked after the stem
// and derivation rules. minRunes guards short nouns (필요, 동네).
var finalEndings = []struct {
	suffix   string
	minRunes int
}{
	{"습니다", 4}, {"니다", 3}, {"어요", 3}, {"아요", 3}, {"여요", 3}, {"세요", 3}, {"군요", 3},
	{"지요", 3}, {"나요", 3}, {"까요", 3}, {"는데", 3}, {"은데", 3}, {"던데", 3}, {"었다", 3},
	{"았다", 3}, {"겠다", 3}, {"는다", 3}, {"었어", 3}, {"았어", 3}, {"어서", 3}, {"아서", 3},
	{"으면", 3}, {"면서", 3}, {"거든", 3}, {"잖아", 3}, {"다", 2}, {"요", 3}, {"죠", 2},
}

func (t *RuleTagger) Analyze(_ context.Context, text string) ([]Token, error) {
	var tokens []Token
	for _, word := range strings.Fields(text) {
		for _, run := range splitScripts(word) {
			switch run.kind {
			case runHangul:
				tokens = append(tokens, t.analyzeHangul(run.text)...)
			case runLatin:
				tokens = append(tokens, Token{Form: run.text, Tag: TagForeign})
			case runDigit:
				tokens = append(tokens, Token{Form: run.text, Tag: TagNumber})
			}
		}
	}
	return tokens, nil
}

// analyzeHangul is recursive on the stem it strips, so a word tagged as a
// noun is always a fixed point of the analysis.
func (t *RuleTagger) analyzeHangul(word string) []Token {
	if tag, ok := t.closedClass[word]; ok {
		return []Token{{Form: word, Tag: tag}}
	}
	if isPredicate(word) {
		return []Token{{Form: word, Tag: TagAdjective}}
	}
	if stem, suffix, ok := cutSuffix(word, haSuffixes, 1, 2); ok {
		return append(t.analyzeHangul(stem), Token{Form: suffix, Tag: TagVerbSuffix})
	}
	if stem, suffix, ok := cutSuffix(word, copulas, 1, 2); ok {
		return append(t.analyzeHangul(stem), Token{Form: suffix, Tag: TagCopula})
	}
	if hasFinalEnding(word) {
		return []Token{{Form: word, Tag: TagVerb}}
	}
	if stem, suffix, ok := cutSuffix(word, particles, 1, 2); ok {
		return append(t.analyzeHangul(stem), Token{Form: suffix, Tag: TagParticle})
	}
	return []Token{{Form: word, Tag: TagCommonNoun}}
}

func isPredicate(word string) bool {
	for _, stem := range predicateStems {
		if rest, ok := strings.CutPrefix(word, stem); ok {
			if _, ending := predicateEndings[rest]; ending {
				return true
			}
		}
	}
	return false
}

func hasFinalEnding(word string) bool {
	n := utf8.RuneCountInString(word)
	for _, e := range finalEndings {
		if n >= e.minRunes && strings.HasSuffix(word, e.suffix) {
			return true
		}
	}
	return false
}

// cutSuffix removes the first matching suffix. Multi-rune suffixes need
// minStem runes left, single-rune suffixes need minShortStem.
func cutSuffix(word string, suffixes []string, minStem, minShortStem int) (string, string, bool) {
	for _, s := range suffixes {
		stem, ok := strings.CutSuffix(word, s)
		if !ok {
			continue
		}
		need := minStem
		if utf8.RuneCountInString(s) == 1 {
			need = minShortStem
		}
		if utf8.RuneCountInString(stem) >= need {
			return stem, s, true
		}
	}
	return "", "", false
}

type runKind int

const (
	runHangul runKind = iota
	runLatin
	runDigit
	runOther
)

type scriptRun struct {
	kind runKind
	text string
}

func kindOf(r rune) runKind {
	switch {
	case IsHangulSyllable(r):
		return runHangul
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return runLatin
	case r >= '0' && r <= '9':
		return runDigit
	default:
		return runOther
	}
}

// splitScripts cuts a word into maximal runs of one script.
func splitScripts(word string) []scriptRun {
	var runs []scriptRun
	start := 0
	current := runOther
	for i, r := range word {
		k := kindOf(r)
		if i == 0 {
			current = k
			continue
		}
		if k != current {
			runs = append(runs, scriptRun{kind: current, text: word[start:i]})
			start, current = i, k
		}
	}
	if start < len(word) {
		runs = append(runs, scriptRun{kind: current, text: word[start:]})
	}
	return runs
}
