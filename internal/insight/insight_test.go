package insight

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewcloud/internal/models"
)

type stubGenerator struct {
	calls  int
	prompt string
	reply  string
	err    error
}

func (s *stubGenerator) Generate(_ context.Context, prompt, _ string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.reply, s.err
}

func TestBuildPrompt(t *testing.T) {
	var pos []models.TermCount
	for i := range 20 {
		pos = append(pos, models.TermCount{Term: string(rune('가' + i)), Count: 20 - i})
	}
	long := strings.Repeat("아", 250)

	prompt := BuildPrompt(PromptData{
		PositiveTerms:   pos,
		NegativeTerms:   []models.TermCount{{Term: "냄새", Count: 3}, {Term: "가격", Count: 2}},
		NegativeSamples: []string{long, "별로예요"},
		Total:           12345,
		PositiveCount:   1000,
		NegativeCount:   7,
	})

	assert.Contains(t, prompt, "전체 리뷰: 12,345개 / 긍정: 1,000개 / 부정: 7개")
	assert.Contains(t, prompt, "부정 키워드 TOP15: 냄새(3), 가격(2)")
	assert.Contains(t, prompt, "가(20), 각(19)")
	assert.NotContains(t, prompt, string(rune('가'+15))+"(")
	assert.Contains(t, prompt, "- "+strings.Repeat("아", 200)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("아", 201))
	assert.Contains(t, prompt, "- 별로예요")
	assert.Contains(t, prompt, "# Step 4: 실행 가능한 액션 플랜")
}

func TestBuildPromptEmpty(t *testing.T) {
	prompt := BuildPrompt(PromptData{})
	assert.Contains(t, prompt, "전체 리뷰: 0개 / 긍정: 0개 / 부정: 0개")
	assert.Contains(t, prompt, "긍정 키워드 TOP15: \n")
}

func TestSampleNegatives(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	few := []string{"a", "b"}
	assert.Equal(t, few, SampleNegatives(few, 15, rng))

	var many []string
	for i := range 40 {
		many = append(many, string(rune('A'+i)))
	}
	sample := SampleNegatives(many, 15, rng)
	require.Len(t, sample, 15)

	seen := map[string]bool{}
	for _, s := range sample {
		assert.Contains(t, many, s)
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
	}
	assert.Equal(t, "A", many[0])
}

func TestDraftMissingKeyDoesNotCallGenerator(t *testing.T) {
	gen := &stubGenerator{reply: "x"}

	_, err := Draft(context.Background(), gen, PromptData{}, "  ")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, gen.calls)
	assert.Contains(t, UserMessage(err), "API Key")
}

func TestDraftGeneratorErrorIsNotRetried(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}

	report, err := Draft(context.Background(), gen, PromptData{}, "key")
	assert.Nil(t, report)
	assert.Error(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, UserMessage(err), "API Key를 확인해주세요")
}

func TestDraftRendersReport(t *testing.T) {
	gen := &stubGenerator{reply: "```markdown\n# 보고서\n\n<script>alert(1)</script>\n\n- 항목\n```"}

	report, err := Draft(context.Background(), gen, PromptData{Total: 3}, "key")
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "전체 리뷰: 3개")
	assert.True(t, strings.HasPrefix(report.Markdown, "# 보고서"))
	assert.Contains(t, report.HTML, "<h1>보고서</h1>")
	assert.Contains(t, report.HTML, "<li>항목</li>")
	assert.NotContains(t, report.HTML, "<script>")
}
