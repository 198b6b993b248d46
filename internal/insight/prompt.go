package insight

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/spacesedan/reviewcloud/internal/models"
)

const (
	PROMPT_TOP_TERMS     = 15
	MAX_NEGATIVE_SAMPLES = 15
	SAMPLE_MAX_RUNES     = 200
)

// PromptData is everything the report prompt is built from.
type PromptData struct {
	PositiveTerms   []models.TermCount
	NegativeTerms   []models.TermCount
	NegativeSamples []string
	Total           int
	PositiveCount   int
	NegativeCount   int
}

const promptTemplate = `당신은 전천후 데이터 사이언티스트이자 마케팅 전략가입니다.

## 분석 데이터
- 전체 리뷰: %s개 / 긍정: %s개 / 부정: %s개
- 긍정 키워드 TOP15: %s
- 부정 키워드 TOP15: %s

## 부정 리뷰 샘플
%s

위 데이터 기반으로 아래 4단계 마케팅 보고서를 한국어 마크다운으로 작성하세요.

# Step 1: 데이터 탐색 및 카테고리 정의
1. 제품/서비스 카테고리 정의
2. 핵심 키워드 TOP10 → [긍정적 특징(USP)] vs [부정적 불만(Pain Point)] 분류

# Step 2: 동적 마케팅 인사이트 도출 (3가지 전략)
1. [강점 극대화] 긍정 키워드 → 광고 카피 / 메인 후킹 문구 제안
2. [위기 및 이탈 방지] 부정 키워드 → 상세페이지 해명·보완 전략
3. [사용 맥락 분석(TPO)] 사용 상황 분석 → 타겟 마케팅 방향

# Step 3: 취약 지점 심층 분석 (Voice of Customer)
1. 문제 키워드 2~3개 선정
2. 위 리뷰 원문 인용하며 구체적 불만 분석
3. 마케터가 놓치기 쉬운 디테일한 불만 포인트 요약

# Step 4: 실행 가능한 액션 플랜
- 즉시 실행 가능한 광고 소재 아이디어 3가지 (이미지/영상 컨셉 + 광고 카피)
`

// BuildPrompt renders the report prompt. It has no side effects.
func BuildPrompt(d PromptData) string {
	samples := d.NegativeSamples
	if len(samples) > MAX_NEGATIVE_SAMPLES {
		samples = samples[:MAX_NEGATIVE_SAMPLES]
	}
	lines := make([]string, len(samples))
	for i, s := range samples {
		lines[i] = "- " + truncateRunes(s, SAMPLE_MAX_RUNES)
	}

	return fmt.Sprintf(promptTemplate,
		humanize.Comma(int64(d.Total)),
		humanize.Comma(int64(d.PositiveCount)),
		humanize.Comma(int64(d.NegativeCount)),
		formatTerms(d.PositiveTerms),
		formatTerms(d.NegativeTerms),
		strings.Join(lines, "\n"))
}

// formatTerms renders "term(count)" pairs, at most PROMPT_TOP_TERMS.
func formatTerms(terms []models.TermCount) string {
	if len(terms) > PROMPT_TOP_TERMS {
		terms = terms[:PROMPT_TOP_TERMS]
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = fmt.Sprintf("%s(%d)", t.Term, t.Count)
	}
	return strings.Join(parts, ", ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SampleNegatives returns every review when there are at most n, else a
// uniform sample of n drawn without replacement. The input is not
// reordered.
func SampleNegatives(reviews []string, n int, rng *rand.Rand) []string {
	if len(reviews) <= n {
		return append([]string(nil), reviews...)
	}
	picked := rng.Perm(len(reviews))[:n]
	out := make([]string, n)
	for i, idx := range picked {
		out[i] = reviews[idx]
	}
	return out
}
